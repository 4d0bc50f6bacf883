package model

// Person is one ABPerson row with NULL columns normalised to "".
type Person struct {
	ID           int64
	First        string
	Middle       string
	Last         string
	Prefix       string
	Suffix       string
	Nickname     string
	Birthday     string // raw seconds offset from Epoch
	JobTitle     string
	Organization string
	Department   string
	Note         string
}

// MultiValueRow is one ABMultiValue row.
type MultiValueRow struct {
	ID         int64
	RecordID   int64
	Property   PropertyCode
	Identifier int64
	Label      string // raw label reference: a label rowid or a literal
	Value      string
}

// EntryRow is one ABMultiValueEntry row, a named part of a multi-value.
type EntryRow struct {
	ParentID int64
	Key      string // raw key reference into ABMultiValueEntryKey
	Value    string
}

// Group is one ABGroup row.
type Group struct {
	ID   int64
	Name string
}
