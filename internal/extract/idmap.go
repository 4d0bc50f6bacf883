package extract

import "errors"

var (
	// ErrIDMapNotFrozen is returned when groups are resolved before every
	// contact has been registered.
	ErrIDMapNotFrozen = errors.New("identifier map is still being populated")

	errIDMapFrozen = errors.New("identifier map is frozen")
)

// IDMap maps person row ids to the UIDs generated for them during one run.
// It is written while contacts are built and frozen before groups are.
type IDMap struct {
	uids   map[int64]string
	frozen bool
}

// NewIDMap returns an empty, writable map.
func NewIDMap() *IDMap {
	return &IDMap{uids: map[int64]string{}}
}

// Register records the UID of a person.
func (m *IDMap) Register(personID int64, uid string) error {
	if m.frozen {
		return errIDMapFrozen
	}
	m.uids[personID] = uid
	return nil
}

// Freeze ends the registration phase.
func (m *IDMap) Freeze() {
	m.frozen = true
}

// Frozen reports whether Freeze was called.
func (m *IDMap) Frozen() bool {
	return m.frozen
}

// Lookup returns the UID registered for a person.
func (m *IDMap) Lookup(personID int64) (string, bool) {
	uid, ok := m.uids[personID]
	return uid, ok
}

// Len returns the number of registered persons.
func (m *IDMap) Len() int {
	return len(m.uids)
}
