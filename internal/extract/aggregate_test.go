package extract

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rcliao/ccextract/internal/model"
)

func newTestAggregator(fs *fakeStore) *Aggregator {
	return NewAggregator(fs, NewLabelResolver(fs, zap.NewNop()), zap.NewNop())
}

func TestCollectResolvesLabelsAndParts(t *testing.T) {
	fs := newFakeStore()
	fs.labels[1] = "_$!<Home>!$_"
	fs.keys[10] = "Street"
	fs.keys[11] = "ZIP"
	fs.addMV(1, model.PropertyPhone, 0, "1", "555-0100")
	addr := fs.addMV(1, model.PropertyAddress, 4, "1", "")
	fs.entries[addr] = []model.EntryRow{
		{ParentID: addr, Key: "10", Value: "1 Main St"},
		{ParentID: addr, Key: "11", Value: "12345"},
		{ParentID: addr, Key: "12", Value: "orphan"},
	}

	got, err := newTestAggregator(fs).Collect(context.Background(), 1)
	require.NoError(t, err)

	want := []model.MultiValueEntry{
		{Property: model.PropertyPhone, Label: "home", Value: "555-0100"},
		{Property: model.PropertyAddress, Label: "home", Index: 4, Parts: []model.Part{
			{Key: "street", Value: "1 Main St"},
			{Key: "zip", Value: "12345"},
			{Key: "12", Value: "orphan"},
		}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Collect mismatch (-want +got):\n%s", diff)
	}
}

func TestCollectLowercasesKeysLikeLabels(t *testing.T) {
	fs := newFakeStore()
	fs.labels[1] = "_$!<ΟΔΟΣ>!$_"
	fs.keys[2] = "ΟΔΟΣ"
	addr := fs.addMV(1, model.PropertyAddress, 0, "1", "")
	fs.entries[addr] = []model.EntryRow{{ParentID: addr, Key: "2", Value: "x"}}

	got, err := newTestAggregator(fs).Collect(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "οδος", got[0].Label)
	assert.Equal(t, []model.Part{{Key: "οδος", Value: "x"}}, got[0].Parts)
}

func TestCollectPropagatesStoreErrors(t *testing.T) {
	fs := newFakeStore()
	fs.mvErr = errors.New("disk I/O error")
	_, err := newTestAggregator(fs).Collect(context.Background(), 1)
	assert.ErrorIs(t, err, fs.mvErr)
}

func TestAggregateFlatKinds(t *testing.T) {
	entries := []model.MultiValueEntry{
		{Property: model.PropertyPhone, Label: "mobile", Value: "1"},
		{Property: model.PropertyPhone, Label: "", Value: "2"},
		{Property: model.PropertyPhone, Label: "home", Value: ""},
		{Property: model.PropertyEmail, Label: "work", Value: "a@b.c"},
		{Property: model.PropertyURL, Label: "homepage", Value: "https://x"},
		{Property: model.PropertyRelated, Label: "mother", Value: "Mom"},
		{Property: 99, Value: "ignored"},
	}
	mv := newTestAggregator(newFakeStore()).Aggregate(entries)

	assert.Equal(t, []model.Typed{{Value: "1", Type: "mobile"}, {Value: "2"}}, mv.Phones)
	assert.Equal(t, []model.Typed{{Value: "a@b.c", Type: "work"}}, mv.Emails)
	assert.Equal(t, []model.Typed{{Value: "https://x", Type: "homepage"}}, mv.URLs)
	assert.Equal(t, []model.Typed{{Value: "Mom", Type: "mother"}}, mv.Related)
	assert.False(t, mv.Unsupported)
}

func TestAggregateMergesBuckets(t *testing.T) {
	entries := []model.MultiValueEntry{
		{Property: model.PropertyAddress, Label: "home", Index: 0, Parts: []model.Part{
			{Key: "street", Value: "old street"}, {Key: "city", Value: "Paris"},
		}},
		{Property: model.PropertyAddress, Index: 0, Parts: []model.Part{
			{Key: "street", Value: "new street"},
		}},
		{Property: model.PropertyAddress, Index: 1},
		{Property: model.PropertyIM, Label: "work", Index: 0, Parts: []model.Part{
			{Key: "service", Value: "Jabber"}, {Key: "username", Value: "jane"},
		}},
	}
	mv := newTestAggregator(newFakeStore()).Aggregate(entries)

	require.Len(t, mv.Addresses, 2)
	assert.Equal(t, "home", mv.Addresses[0].Label)
	assert.Equal(t, map[string]string{"street": "new street", "city": "Paris"}, mv.Addresses[0].Fields)
	assert.True(t, mv.Addresses[1].Empty())

	require.Len(t, mv.IMs, 1)
	assert.Equal(t, map[string]string{"service": "Jabber", "username": "jane"}, mv.IMs[0].Fields)
}

func TestAggregateAnniversaries(t *testing.T) {
	entries := []model.MultiValueEntry{
		{Property: model.PropertyAnniversary, Label: "anniversary", Value: "0"},
		{Property: model.PropertyAnniversary, Value: "86400"},
		{Property: model.PropertyAnniversary, Value: "not a number"},
	}
	mv := newTestAggregator(newFakeStore()).Aggregate(entries)

	want := []model.Anniversary{
		{Date: model.Epoch, Type: "anniversary"},
		{Date: model.Epoch.Add(24 * time.Hour), Type: model.DefaultAnniversaryType},
	}
	if diff := cmp.Diff(want, mv.Anniversaries); diff != "" {
		t.Errorf("anniversaries mismatch (-want +got):\n%s", diff)
	}
}

func TestAggregateFlagsSocialProfiles(t *testing.T) {
	entries := []model.MultiValueEntry{
		{Property: model.PropertySocialProfile, Index: 0},
		{Property: model.PropertySocialProfile, Index: 1},
	}
	mv := newTestAggregator(newFakeStore()).Aggregate(entries)
	assert.True(t, mv.Unsupported)
	assert.Empty(t, mv.Addresses)
	assert.Empty(t, mv.IMs)
}

func TestSortedBuckets(t *testing.T) {
	buckets := map[int64]*model.Bucket{
		3: {Index: 3}, 0: {Index: 0}, 1: {Index: 1},
	}
	var got []int64
	for _, b := range sortedBuckets(buckets) {
		got = append(got, b.Index)
	}
	assert.Equal(t, []int64{0, 1, 3}, got)
}
