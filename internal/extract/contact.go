package extract

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rcliao/ccextract/internal/model"
)

// ContactBuilder turns person rows into contact records.
type ContactBuilder struct {
	agg    *Aggregator
	ids    *IDMap
	newUID func() string
	log    *zap.Logger
}

// NewContactBuilder returns a builder registering UIDs in ids. A nil newUID
// defaults to random UUIDs.
func NewContactBuilder(agg *Aggregator, ids *IDMap, newUID func() string, log *zap.Logger) *ContactBuilder {
	if newUID == nil {
		newUID = uuid.NewString
	}
	return &ContactBuilder{agg: agg, ids: ids, newUID: newUID, log: log}
}

// Build assembles the record for one person. Invalid address and IM buckets
// are dropped with a warning; only store failures are returned.
func (b *ContactBuilder) Build(ctx context.Context, p model.Person) (*model.Contact, error) {
	c := &model.Contact{
		UID:          b.newUID(),
		First:        p.First,
		Middle:       p.Middle,
		Last:         p.Last,
		Prefix:       p.Prefix,
		Suffix:       p.Suffix,
		Nickname:     p.Nickname,
		JobTitle:     p.JobTitle,
		Organization: organization(p.Organization, p.Department),
		Note:         p.Note,
	}
	if err := b.ids.Register(p.ID, c.UID); err != nil {
		return nil, fmt.Errorf("register person %d: %w", p.ID, err)
	}
	if bday, ok := model.FromEpochOffset(p.Birthday); ok {
		c.Birthday = &bday
	}

	entries, err := b.agg.Collect(ctx, p.ID)
	if err != nil {
		return nil, fmt.Errorf("collect multi-values of %q: %w", c.FileBasis(), err)
	}
	mv := b.agg.Aggregate(entries)

	c.Phones = mv.Phones
	c.Emails = mv.Emails
	c.URLs = mv.URLs
	c.Anniversaries = mv.Anniversaries
	c.Related = mv.Related
	c.Addresses = b.validBuckets(c, "address", mv.Addresses)
	c.IMs = b.validBuckets(c, "instant messaging", mv.IMs)

	if mv.Unsupported {
		b.log.Warn("Social network profiles are not supported, skipping them",
			zap.String("contact", c.DisplayName()))
	}
	return c, nil
}

func (b *ContactBuilder) validBuckets(c *model.Contact, kind string, buckets map[int64]*model.Bucket) []model.Bucket {
	var out []model.Bucket
	for _, bk := range sortedBuckets(buckets) {
		if bk.Empty() {
			b.log.Warn("Dropping invalid entry without label or fields",
				zap.String("contact", c.DisplayName()),
				zap.String("kind", kind),
				zap.Int64("index", bk.Index))
			continue
		}
		out = append(out, *bk)
	}
	return out
}

// organization lists the non-empty ORG components in order.
func organization(org, dept string) []string {
	var parts []string
	for _, p := range []string{org, dept} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return parts
}
