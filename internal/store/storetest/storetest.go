// Package storetest builds AddressBook fixture databases for tests.
package storetest

import (
	"database/sql"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"
)

// Schema is the subset of the iOS AddressBook schema read by the store.
const Schema = `
CREATE TABLE ABPerson (
	ROWID        INTEGER PRIMARY KEY AUTOINCREMENT,
	First        TEXT,
	Last         TEXT,
	Middle       TEXT,
	Prefix       TEXT,
	Suffix       TEXT,
	Nickname     TEXT,
	Birthday     TEXT,
	JobTitle     TEXT,
	Organization TEXT,
	Department   TEXT,
	Note         TEXT
);
CREATE TABLE ABMultiValue (
	UID        INTEGER PRIMARY KEY,
	record_id  INTEGER,
	property   INTEGER,
	identifier INTEGER,
	label      INTEGER,
	value      TEXT
);
CREATE TABLE ABMultiValueEntry (
	parent_id INTEGER NOT NULL,
	key       INTEGER NOT NULL,
	value     TEXT,
	UNIQUE(parent_id, key)
);
CREATE TABLE ABMultiValueLabel (value TEXT, UNIQUE(value));
CREATE TABLE ABMultiValueEntryKey (value TEXT, UNIQUE(value));
CREATE TABLE ABGroup (
	ROWID INTEGER PRIMARY KEY AUTOINCREMENT,
	Name  TEXT
);
CREATE TABLE ABGroupMembers (
	UID         INTEGER PRIMARY KEY,
	group_id    INTEGER,
	member_type INTEGER,
	member_id   INTEGER,
	UNIQUE(group_id, member_type, member_id)
);
`

// DB is a writable fixture database.
type DB struct {
	t    *testing.T
	db   *sql.DB
	Path string
}

// New creates an empty AddressBook database in a temporary directory.
func New(t *testing.T) *DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "AddressBook.sqlitedb")
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open fixture: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if _, err := db.Exec(Schema); err != nil {
		t.Fatalf("create schema: %v", err)
	}
	return &DB{t: t, db: db, Path: path}
}

// Person holds the ABPerson columns; nil pointers are stored as NULL.
type Person struct {
	First, Middle, Last, Prefix, Suffix, Nickname *string
	Birthday                                      *string
	JobTitle, Organization, Department, Note      *string
}

// S returns a pointer to s, for optional Person columns.
func S(s string) *string { return &s }

// AddPerson inserts a person and returns its row id.
func (f *DB) AddPerson(p Person) int64 {
	f.t.Helper()
	return f.insert(`INSERT INTO ABPerson (First, Middle, Last, Prefix, Suffix, Nickname, Birthday,
		JobTitle, Organization, Department, Note) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.First, p.Middle, p.Last, p.Prefix, p.Suffix, p.Nickname, p.Birthday,
		p.JobTitle, p.Organization, p.Department, p.Note)
}

// AddLabel inserts a label and returns its row id.
func (f *DB) AddLabel(value string) int64 {
	f.t.Helper()
	return f.insert(`INSERT INTO ABMultiValueLabel (value) VALUES (?)`, value)
}

// AddEntryKey inserts a sub-field key name and returns its row id.
func (f *DB) AddEntryKey(value string) int64 {
	f.t.Helper()
	return f.insert(`INSERT INTO ABMultiValueEntryKey (value) VALUES (?)`, value)
}

// AddMultiValue inserts a multi-value row. label may be nil, an int64 label
// id or a literal string.
func (f *DB) AddMultiValue(recordID, property, identifier int64, label any, value *string) int64 {
	f.t.Helper()
	return f.insert(`INSERT INTO ABMultiValue (record_id, property, identifier, label, value)
		VALUES (?, ?, ?, ?, ?)`, recordID, property, identifier, label, value)
}

// AddEntry inserts a sub-entry of a multi-value row.
func (f *DB) AddEntry(parentID, keyID int64, value string) {
	f.t.Helper()
	f.insert(`INSERT INTO ABMultiValueEntry (parent_id, key, value) VALUES (?, ?, ?)`,
		parentID, keyID, value)
}

// AddGroup inserts a group; a nil name is stored as NULL.
func (f *DB) AddGroup(name *string) int64 {
	f.t.Helper()
	return f.insert(`INSERT INTO ABGroup (Name) VALUES (?)`, name)
}

// AddMember adds a person to a group.
func (f *DB) AddMember(groupID, personID int64) {
	f.t.Helper()
	f.insert(`INSERT INTO ABGroupMembers (group_id, member_type, member_id) VALUES (?, 0, ?)`,
		groupID, personID)
}

// AddSubgroup adds a nested group membership.
func (f *DB) AddSubgroup(groupID, childID int64) {
	f.t.Helper()
	f.insert(`INSERT INTO ABGroupMembers (group_id, member_type, member_id) VALUES (?, 1, ?)`,
		groupID, childID)
}

// Exec runs arbitrary SQL against the fixture.
func (f *DB) Exec(query string, args ...any) {
	f.t.Helper()
	if _, err := f.db.Exec(query, args...); err != nil {
		f.t.Fatalf("exec %q: %v", query, err)
	}
}

// Close closes the fixture connection so the file can be opened read-only.
func (f *DB) Close() {
	f.db.Close()
}

func (f *DB) insert(query string, args ...any) int64 {
	f.t.Helper()
	res, err := f.db.Exec(query, args...)
	if err != nil {
		f.t.Fatalf("insert %q: %v", query, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		f.t.Fatalf("last insert id: %v", err)
	}
	return id
}
