package extract

import (
	"context"
	"errors"
	"fmt"

	"github.com/rcliao/ccextract/internal/model"
)

var (
	// ErrUnnamedGroup marks a group that is skipped for having no name.
	ErrUnnamedGroup = errors.New("group has no name")

	// ErrUnknownMember marks a membership pointing at a person that was
	// never registered. It means the backup is inconsistent.
	ErrUnknownMember = errors.New("group member was not extracted")
)

// MemberSource is the part of the store the group builder reads.
type MemberSource interface {
	GroupMembers(ctx context.Context, groupID int64) ([]int64, error)
}

// GroupBuilder turns group rows into group records.
type GroupBuilder struct {
	src MemberSource
	ids *IDMap
}

// NewGroupBuilder returns a builder resolving members through ids.
func NewGroupBuilder(src MemberSource, ids *IDMap) *GroupBuilder {
	return &GroupBuilder{src: src, ids: ids}
}

// Build assembles the record for one group.
func (b *GroupBuilder) Build(ctx context.Context, g model.Group) (*model.GroupRecord, error) {
	if g.Name == "" {
		return nil, fmt.Errorf("group %d: %w", g.ID, ErrUnnamedGroup)
	}
	if !b.ids.Frozen() {
		return nil, ErrIDMapNotFrozen
	}

	memberIDs, err := b.src.GroupMembers(ctx, g.ID)
	if err != nil {
		return nil, fmt.Errorf("read members of group %q: %w", g.Name, err)
	}

	rec := &model.GroupRecord{ID: g.ID, Name: g.Name}
	for _, id := range memberIDs {
		uid, ok := b.ids.Lookup(id)
		if !ok {
			return nil, fmt.Errorf("group %q, person %d: %w", g.Name, id, ErrUnknownMember)
		}
		rec.Members = append(rec.Members, uid)
	}
	return rec, nil
}
