// Package extract rebuilds contact and group records from an address book
// and hands their vCards to a sink.
package extract

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/rcliao/ccextract/internal/store"
	"github.com/rcliao/ccextract/internal/vcf"
)

// Sink persists serialized cards.
type Sink interface {
	WriteContact(basis, text string) (string, error)
	WriteGroup(basis, text string) (string, error)
}

// Stats counts what a run produced.
type Stats struct {
	Contacts      int `json:"contacts"`
	Groups        int `json:"groups"`
	SkippedGroups int `json:"skipped_groups"`
}

// Extractor runs one extraction pass. It is not safe for concurrent use.
type Extractor struct {
	Store store.Store
	Sink  Sink
	Log   *zap.Logger

	// NewUID generates contact UIDs; nil means random UUIDs.
	NewUID func() string
}

// Run writes every contact, then every group. Groups are only resolved once
// all contacts are registered.
func (e *Extractor) Run(ctx context.Context) (Stats, error) {
	var st Stats
	log := e.Log
	if log == nil {
		log = zap.NewNop()
	}

	labels := NewLabelResolver(e.Store, log)
	ids := NewIDMap()
	contacts := NewContactBuilder(NewAggregator(e.Store, labels, log), ids, e.NewUID, log)

	persons, err := e.Store.Persons(ctx)
	if err != nil {
		return st, fmt.Errorf("read persons: %w", err)
	}
	for _, p := range persons {
		c, err := contacts.Build(ctx, p)
		if err != nil {
			return st, err
		}
		path, err := e.Sink.WriteContact(c.FileBasis(), vcf.Contact(c))
		if err != nil {
			return st, fmt.Errorf("write contact %q: %w", c.FileBasis(), err)
		}
		log.Info("Writing contact", zap.String("name", c.FileBasis()), zap.String("path", path))
		st.Contacts++
	}
	ids.Freeze()

	groups, err := e.Store.Groups(ctx)
	if err != nil {
		return st, fmt.Errorf("read groups: %w", err)
	}
	builder := NewGroupBuilder(e.Store, ids)
	for _, g := range groups {
		rec, err := builder.Build(ctx, g)
		if errors.Is(err, ErrUnnamedGroup) {
			log.Error("Skipping group without a name", zap.Int64("group_id", g.ID))
			st.SkippedGroups++
			continue
		}
		if err != nil {
			return st, err
		}
		path, err := e.Sink.WriteGroup(rec.FileBasis(), vcf.Group(rec))
		if err != nil {
			return st, fmt.Errorf("write group %q: %w", rec.Name, err)
		}
		log.Info("Writing group", zap.String("name", rec.Name), zap.String("path", path))
		st.Groups++
	}

	return st, nil
}
