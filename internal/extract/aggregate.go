package extract

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/rcliao/ccextract/internal/model"
)

// MultiValueSource is the part of the store the aggregator reads.
type MultiValueSource interface {
	MultiValues(ctx context.Context, personID int64) ([]model.MultiValueRow, error)
	Entries(ctx context.Context, multiValueID int64) ([]model.EntryRow, error)
}

// MultiValues holds a contact's multi-values bucketed by kind.
type MultiValues struct {
	Phones        []model.Typed
	Emails        []model.Typed
	Addresses     map[int64]*model.Bucket
	IMs           map[int64]*model.Bucket
	URLs          []model.Typed
	Anniversaries []model.Anniversary
	Related       []model.Typed

	// Unsupported is set when a social profile was seen.
	Unsupported bool
}

// Aggregator collects and classifies the multi-value rows of a person.
type Aggregator struct {
	src    MultiValueSource
	labels *LabelResolver
	log    *zap.Logger
}

// NewAggregator returns an Aggregator reading rows from src.
func NewAggregator(src MultiValueSource, labels *LabelResolver, log *zap.Logger) *Aggregator {
	return &Aggregator{src: src, labels: labels, log: log}
}

// Collect reads every multi-value row of a person and resolves its label
// and, for multi-part rows, its sub-entries.
func (a *Aggregator) Collect(ctx context.Context, personID int64) ([]model.MultiValueEntry, error) {
	rows, err := a.src.MultiValues(ctx, personID)
	if err != nil {
		return nil, err
	}

	entries := make([]model.MultiValueEntry, 0, len(rows))
	for _, row := range rows {
		e := model.MultiValueEntry{
			Property: row.Property,
			Label:    a.labels.Resolve(ctx, row.Label),
			Value:    row.Value,
			Index:    row.Identifier,
		}
		if isMultiPart(row.Property) {
			subs, err := a.src.Entries(ctx, row.ID)
			if err != nil {
				return nil, fmt.Errorf("read parts of multi-value %d: %w", row.ID, err)
			}
			for _, sub := range subs {
				e.Parts = append(e.Parts, model.Part{
					Key:   lowerLabel(a.labels.ResolveKey(ctx, sub.Key)),
					Value: sub.Value,
				})
			}
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func isMultiPart(p model.PropertyCode) bool {
	return p == model.PropertyAddress || p == model.PropertyIM
}

// Aggregate buckets resolved entries by property code.
func (a *Aggregator) Aggregate(entries []model.MultiValueEntry) MultiValues {
	mv := MultiValues{
		Addresses: map[int64]*model.Bucket{},
		IMs:       map[int64]*model.Bucket{},
	}

	for _, e := range entries {
		switch e.Property {
		case model.PropertyPhone:
			mv.Phones = appendTyped(mv.Phones, e)
		case model.PropertyEmail:
			mv.Emails = appendTyped(mv.Emails, e)
		case model.PropertyURL:
			mv.URLs = appendTyped(mv.URLs, e)
		case model.PropertyRelated:
			mv.Related = appendTyped(mv.Related, e)
		case model.PropertyAddress:
			mergeBucket(mv.Addresses, e)
		case model.PropertyIM:
			mergeBucket(mv.IMs, e)
		case model.PropertyAnniversary:
			date, ok := model.FromEpochOffset(e.Value)
			if !ok {
				continue
			}
			typ := e.Label
			if typ == "" {
				typ = model.DefaultAnniversaryType
			}
			mv.Anniversaries = append(mv.Anniversaries, model.Anniversary{Date: date, Type: typ})
		case model.PropertySocialProfile:
			mv.Unsupported = true
		default:
			a.log.Debug("Ignoring multi-value", zap.Stringer("property", e.Property))
		}
	}
	return mv
}

func appendTyped(list []model.Typed, e model.MultiValueEntry) []model.Typed {
	if e.Value == "" {
		return list
	}
	return append(list, model.Typed{Value: e.Value, Type: e.Label})
}

// mergeBucket folds e into the bucket for its index. Later parts overwrite
// earlier ones with the same name.
func mergeBucket(buckets map[int64]*model.Bucket, e model.MultiValueEntry) {
	b, ok := buckets[e.Index]
	if !ok {
		b = &model.Bucket{Index: e.Index, Fields: map[string]string{}}
		buckets[e.Index] = b
	}
	if e.Label != "" {
		b.Label = e.Label
	}
	for _, p := range e.Parts {
		if p.Key == "" {
			continue
		}
		b.Fields[p.Key] = p.Value
	}
}

// sortedBuckets returns the buckets ordered by index.
func sortedBuckets(buckets map[int64]*model.Bucket) []*model.Bucket {
	out := make([]*model.Bucket, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	return out
}
