// Package model defines the address book rows and the records built from them.
package model

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// Placeholder names a contact or group that has no usable name.
const Placeholder = "UNNAMED"

// DefaultAnniversaryType is used for anniversaries without a label.
const DefaultAnniversaryType = "ANNIVERSARY"

// Epoch is the reference instant for every date stored in the address book.
var Epoch = time.Date(2001, time.January, 1, 0, 0, 0, 0, time.UTC)

// maxEpochOffset bounds accepted offsets to roughly +-3000 years.
const maxEpochOffset = 1e11

// FromEpochOffset parses a seconds offset from Epoch. Fractional seconds are
// truncated. ok is false for empty, non-numeric, non-finite or out of range
// input.
func FromEpochOffset(raw string) (t time.Time, ok bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	secs, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(secs) || math.Abs(secs) > maxEpochOffset {
		return time.Time{}, false
	}
	// time.Duration overflows for year-less birthdays stored around 1604.
	return time.Unix(Epoch.Unix()+int64(secs), 0).UTC(), true
}

// Typed is a single value with its type label.
type Typed struct {
	Value string
	Type  string
}

// Anniversary is a dated multi-value.
type Anniversary struct {
	Date time.Time
	Type string
}

// Bucket accumulates the parts of an address or IM handle sharing an index.
type Bucket struct {
	Index  int64
	Label  string
	Fields map[string]string
}

// Empty reports whether the bucket has neither a label nor any field.
func (b Bucket) Empty() bool {
	return b.Label == "" && len(b.Fields) == 0
}

// Contact is one person ready for serialization.
type Contact struct {
	UID          string
	First        string
	Middle       string
	Last         string
	Prefix       string
	Suffix       string
	Nickname     string
	Birthday     *time.Time
	JobTitle     string
	Organization []string // organization then department, empty parts dropped
	Note         string

	Phones        []Typed
	Emails        []Typed
	Addresses     []Bucket
	IMs           []Bucket
	URLs          []Typed
	Anniversaries []Anniversary
	Related       []Typed
}

// HasName reports whether any structured name component is set.
func (c *Contact) HasName() bool {
	return c.First != "" || c.Middle != "" || c.Last != "" || c.Prefix != "" || c.Suffix != ""
}

// DisplayName is the formatted name: prefix, first, middle, last and suffix.
func (c *Contact) DisplayName() string {
	return joinNonEmpty(Placeholder, c.Prefix, c.First, c.Middle, c.Last, c.Suffix)
}

// FileBasis is the name the contact's file is derived from.
func (c *Contact) FileBasis() string {
	return joinNonEmpty(Placeholder, c.First, c.Middle, c.Last)
}

// GroupRecord is one group with its members' contact UIDs.
type GroupRecord struct {
	ID      int64
	Name    string
	Members []string
}

// FileBasis is the name the group's file is derived from.
func (g *GroupRecord) FileBasis() string {
	return joinNonEmpty(Placeholder, g.Name)
}

func joinNonEmpty(fallback string, parts ...string) string {
	var kept []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	if len(kept) == 0 {
		return fallback
	}
	return strings.Join(kept, " ")
}
