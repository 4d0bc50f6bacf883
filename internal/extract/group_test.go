package extract

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcliao/ccextract/internal/model"
)

func frozenIDs(pairs map[int64]string) *IDMap {
	ids := NewIDMap()
	for id, uid := range pairs {
		ids.Register(id, uid)
	}
	ids.Freeze()
	return ids
}

func TestBuildGroupResolvesMembersInOrder(t *testing.T) {
	fs := newFakeStore()
	fs.members[9] = []int64{2, 1}
	b := NewGroupBuilder(fs, frozenIDs(map[int64]string{1: "uid-a", 2: "uid-b"}))

	rec, err := b.Build(context.Background(), model.Group{ID: 9, Name: "Family"})
	require.NoError(t, err)
	assert.Equal(t, &model.GroupRecord{ID: 9, Name: "Family", Members: []string{"uid-b", "uid-a"}}, rec)
}

func TestBuildGroupRejectsUnnamed(t *testing.T) {
	b := NewGroupBuilder(newFakeStore(), frozenIDs(nil))
	_, err := b.Build(context.Background(), model.Group{ID: 1})
	assert.ErrorIs(t, err, ErrUnnamedGroup)
}

func TestBuildGroupUnknownMemberIsFatal(t *testing.T) {
	fs := newFakeStore()
	fs.members[1] = []int64{5}
	b := NewGroupBuilder(fs, frozenIDs(map[int64]string{1: "uid-a"}))

	_, err := b.Build(context.Background(), model.Group{ID: 1, Name: "Team"})
	assert.ErrorIs(t, err, ErrUnknownMember)
	assert.Contains(t, err.Error(), `"Team"`)
}

func TestBuildGroupRequiresFrozenMap(t *testing.T) {
	b := NewGroupBuilder(newFakeStore(), NewIDMap())
	_, err := b.Build(context.Background(), model.Group{ID: 1, Name: "Team"})
	assert.ErrorIs(t, err, ErrIDMapNotFrozen)
}

func TestIDMap(t *testing.T) {
	ids := NewIDMap()
	require.NoError(t, ids.Register(1, "a"))
	assert.Equal(t, 1, ids.Len())
	assert.False(t, ids.Frozen())

	ids.Freeze()
	assert.True(t, ids.Frozen())
	assert.Error(t, ids.Register(2, "b"))

	uid, ok := ids.Lookup(1)
	assert.True(t, ok)
	assert.Equal(t, "a", uid)
	_, ok = ids.Lookup(2)
	assert.False(t, ok)
}
