package extract

import (
	"context"
	"regexp"
	"strconv"

	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// bracketed matches the built-in label encoding, e.g. "_$!<Mobile>!$_".
var bracketed = regexp.MustCompile(`^_\$!<(.*)>!\$_$`)

type lookupFunc func(ctx context.Context, id int64) (string, error)

// LabelResolver turns raw label and sub-field key references into text.
// Lookup failures fall back to the raw reference and are never returned.
type LabelResolver struct {
	labels lookupFunc
	keys   lookupFunc
	log    *zap.Logger

	labelCache map[string]string
	keyCache   map[string]string
}

// NewLabelResolver returns a resolver reading lookup tables from src.
func NewLabelResolver(src LabelSource, log *zap.Logger) *LabelResolver {
	return &LabelResolver{
		labels:     src.Label,
		keys:       src.EntryKey,
		log:        log,
		labelCache: map[string]string{},
		keyCache:   map[string]string{},
	}
}

// LabelSource is the part of the store the resolver needs.
type LabelSource interface {
	Label(ctx context.Context, id int64) (string, error)
	EntryKey(ctx context.Context, id int64) (string, error)
}

// Resolve returns the type token for a multi-value label reference.
func (r *LabelResolver) Resolve(ctx context.Context, ref string) string {
	return r.resolve(ctx, ref, r.labels, r.labelCache)
}

// ResolveKey returns the sub-field name for a sub-entry key reference.
func (r *LabelResolver) ResolveKey(ctx context.Context, ref string) string {
	return r.resolve(ctx, ref, r.keys, r.keyCache)
}

func (r *LabelResolver) resolve(ctx context.Context, ref string, lookup lookupFunc, cache map[string]string) string {
	if ref == "" {
		return ""
	}
	if v, ok := cache[ref]; ok {
		return v
	}

	text := ref
	if id, err := strconv.ParseInt(ref, 10, 64); err == nil {
		stored, err := lookup(ctx, id)
		if err == nil {
			text = stored
		} else {
			r.log.Debug("Label lookup failed, using raw reference",
				zap.String("ref", ref), zap.Error(err))
		}
	}

	text = StripLabel(text)
	cache[ref] = text
	return text
}

// StripLabel removes the "_$!<...>!$_" wrapping of built-in labels and
// lowercases them. Other labels are returned unchanged.
func StripLabel(s string) string {
	m := bracketed.FindStringSubmatch(s)
	if m == nil {
		return s
	}
	return lowerLabel(m[1])
}

// lowerLabel lowercases label and sub-field key text.
func lowerLabel(s string) string {
	return cases.Lower(language.Und).String(s)
}
