package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"

	_ "modernc.org/sqlite"

	"github.com/rcliao/ccextract/internal/model"
)

// SQLiteStore implements Store over an AddressBook SQLite file.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// NewSQLiteStore opens the database at dbPath read-only and probes it.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	info, err := os.Stat(dbPath)
	if err != nil {
		return nil, fmt.Errorf("stat db: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("open db %s: is a directory", dbPath)
	}

	db, err := sql.Open("sqlite", "file:"+dbPath+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	s := &SQLiteStore{db: db, path: dbPath}
	if err := s.probe(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStore) probe() error {
	var one int
	err := s.db.QueryRow(`SELECT 1 FROM ABPerson LIMIT 1`).Scan(&one)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	return nil
}

// Path returns the database file path.
func (s *SQLiteStore) Path() string {
	return s.path
}

func (s *SQLiteStore) Persons(ctx context.Context) ([]model.Person, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT ROWID, First, Middle, Last, Prefix, Suffix, Nickname, Birthday,
		        JobTitle, Organization, Department, Note
		 FROM ABPerson ORDER BY ROWID`)
	if err != nil {
		return nil, fmt.Errorf("query persons: %w", err)
	}
	defer rows.Close()

	var persons []model.Person
	for rows.Next() {
		p, err := scanPerson(rows)
		if err != nil {
			return nil, fmt.Errorf("scan person: %w", err)
		}
		persons = append(persons, p)
	}
	return persons, rows.Err()
}

func (s *SQLiteStore) MultiValues(ctx context.Context, personID int64) ([]model.MultiValueRow, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT UID, record_id, property, identifier, label, value
		 FROM ABMultiValue WHERE record_id = ? ORDER BY UID`, personID)
	if err != nil {
		return nil, fmt.Errorf("query multi-values of %d: %w", personID, err)
	}
	defer rows.Close()

	var mvs []model.MultiValueRow
	for rows.Next() {
		mv, err := scanMultiValue(rows)
		if err != nil {
			return nil, fmt.Errorf("scan multi-value: %w", err)
		}
		mvs = append(mvs, mv)
	}
	return mvs, rows.Err()
}

func (s *SQLiteStore) Entries(ctx context.Context, multiValueID int64) ([]model.EntryRow, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT parent_id, key, value FROM ABMultiValueEntry
		 WHERE parent_id = ? ORDER BY rowid`, multiValueID)
	if err != nil {
		return nil, fmt.Errorf("query entries of %d: %w", multiValueID, err)
	}
	defer rows.Close()

	var entries []model.EntryRow
	for rows.Next() {
		var e model.EntryRow
		var key, value sql.NullString
		if err := rows.Scan(&e.ParentID, &key, &value); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		e.Key = key.String
		e.Value = value.String
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s *SQLiteStore) Label(ctx context.Context, id int64) (string, error) {
	return s.lookup(ctx, `SELECT value FROM ABMultiValueLabel WHERE rowid = ?`, id)
}

func (s *SQLiteStore) EntryKey(ctx context.Context, id int64) (string, error) {
	return s.lookup(ctx, `SELECT value FROM ABMultiValueEntryKey WHERE rowid = ?`, id)
}

func (s *SQLiteStore) lookup(ctx context.Context, query string, id int64) (string, error) {
	var value sql.NullString
	err := s.db.QueryRowContext(ctx, query, id).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("id %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return "", err
	}
	return value.String, nil
}

func (s *SQLiteStore) Groups(ctx context.Context) ([]model.Group, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT ROWID, Name FROM ABGroup ORDER BY ROWID`)
	if err != nil {
		return nil, fmt.Errorf("query groups: %w", err)
	}
	defer rows.Close()

	var groups []model.Group
	for rows.Next() {
		var g model.Group
		var name sql.NullString
		if err := rows.Scan(&g.ID, &name); err != nil {
			return nil, fmt.Errorf("scan group: %w", err)
		}
		g.Name = name.String
		groups = append(groups, g)
	}
	return groups, rows.Err()
}

// GroupMembers skips members that are not persons (member_type 1 is a
// nested group).
func (s *SQLiteStore) GroupMembers(ctx context.Context, groupID int64) ([]int64, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT member_id FROM ABGroupMembers
		 WHERE group_id = ? AND COALESCE(member_type, 0) = 0
		 ORDER BY rowid`, groupID)
	if err != nil {
		return nil, fmt.Errorf("query members of group %d: %w", groupID, err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan member: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanPerson(row scanner) (model.Person, error) {
	var p model.Person
	var first, middle, last, prefix, suffix, nickname, birthday sql.NullString
	var title, org, dept, note sql.NullString

	err := row.Scan(
		&p.ID, &first, &middle, &last, &prefix, &suffix, &nickname, &birthday,
		&title, &org, &dept, &note,
	)
	if err != nil {
		return p, err
	}

	p.First = first.String
	p.Middle = middle.String
	p.Last = last.String
	p.Prefix = prefix.String
	p.Suffix = suffix.String
	p.Nickname = nickname.String
	p.Birthday = birthday.String
	p.JobTitle = title.String
	p.Organization = org.String
	p.Department = dept.String
	p.Note = note.String
	return p, nil
}

func scanMultiValue(row scanner) (model.MultiValueRow, error) {
	var mv model.MultiValueRow
	var property, identifier sql.NullInt64
	var label, value sql.NullString

	if err := row.Scan(&mv.ID, &mv.RecordID, &property, &identifier, &label, &value); err != nil {
		return mv, err
	}

	mv.Property = model.PropertyCode(property.Int64)
	mv.Identifier = identifier.Int64
	mv.Label = label.String
	mv.Value = value.String
	return mv, nil
}
