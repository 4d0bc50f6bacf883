// Package store reads an iOS AddressBook database.
package store

import (
	"context"
	"errors"

	"github.com/rcliao/ccextract/internal/model"
)

var (
	// ErrNotFound is returned by lookups that match no row.
	ErrNotFound = errors.New("not found")

	// ErrUnreadable is returned when the database fails the readability probe.
	ErrUnreadable = errors.New("database is corrupted or unreadable")
)

// Store defines read access to the address book tables.
type Store interface {
	// Persons returns every person row ordered by row id.
	Persons(ctx context.Context) ([]model.Person, error)

	// MultiValues returns the multi-value rows owned by a person.
	MultiValues(ctx context.Context, personID int64) ([]model.MultiValueRow, error)

	// Entries returns the sub-entries of a multi-value row.
	Entries(ctx context.Context, multiValueID int64) ([]model.EntryRow, error)

	// Label returns the stored label text for a label id.
	Label(ctx context.Context, id int64) (string, error)

	// EntryKey returns the stored sub-field key name for a key id.
	EntryKey(ctx context.Context, id int64) (string, error)

	// Groups returns every group row ordered by row id.
	Groups(ctx context.Context) ([]model.Group, error)

	// GroupMembers returns the person row ids of a group in membership order.
	GroupMembers(ctx context.Context, groupID int64) ([]int64, error)

	// Close closes the store.
	Close() error
}
