package extract

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/rcliao/ccextract/internal/output"
	"github.com/rcliao/ccextract/internal/store"
	"github.com/rcliao/ccextract/internal/store/storetest"
)

func runFixture(t *testing.T, fx *storetest.DB) (Stats, string, error) {
	t.Helper()
	fx.Close()
	s, err := store.NewSQLiteStore(fx.Path)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	dir := filepath.Join(t.TempDir(), "out")
	w, created, err := output.NewWriter(dir)
	require.NoError(t, err)
	require.True(t, created)

	e := &Extractor{Store: s, Sink: w, Log: zaptest.NewLogger(t), NewUID: sequentialUIDs()}
	st, err := e.Run(context.Background())
	return st, dir, err
}

func readCard(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestRunWritesContactsAndGroups(t *testing.T) {
	fx := storetest.New(t)
	mobile := fx.AddLabel("_$!<Mobile>!$_")
	street := fx.AddEntryKey("Street")
	city := fx.AddEntryKey("City")

	jane := fx.AddPerson(storetest.Person{
		First: storetest.S("Jane"), Last: storetest.S("Doe"), Birthday: storetest.S("0"),
	})
	fx.AddMultiValue(jane, 3, 0, mobile, storetest.S("+1 555 0100"))
	addr := fx.AddMultiValue(jane, 5, 0, nil, nil)
	fx.AddEntry(addr, street, "1 Main St")
	fx.AddEntry(addr, city, "Springfield")

	twin := fx.AddPerson(storetest.Person{First: storetest.S("Jane"), Last: storetest.S("Doe")})
	fx.AddPerson(storetest.Person{})

	family := fx.AddGroup(storetest.S("Family"))
	fx.AddMember(family, twin)
	fx.AddMember(family, jane)
	fx.AddSubgroup(family, family)
	fx.AddGroup(nil)

	st, dir, err := runFixture(t, fx)
	require.NoError(t, err)
	assert.Equal(t, Stats{Contacts: 3, Groups: 1, SkippedGroups: 1}, st)

	first := readCard(t, filepath.Join(dir, "Jane Doe.vcf"))
	assert.True(t, strings.HasSuffix(first, "END:VCARD\r\n"))
	assert.Contains(t, first, "UID:urn:uuid:uid-1\r\n")
	assert.Contains(t, first, "BDAY:20010101\r\n")
	assert.Contains(t, first, "TEL;TYPE=mobile:+1 555 0100\r\n")
	assert.Contains(t, first, "ADDR:;;1 Main St;;Springfield;;\r\n")

	second := readCard(t, filepath.Join(dir, "Jane Doe - 2.vcf"))
	assert.Contains(t, second, "UID:urn:uuid:uid-2\r\n")
	assert.NotContains(t, second, "BDAY")

	unnamed := readCard(t, filepath.Join(dir, "UNNAMED.vcf"))
	assert.Contains(t, unnamed, "FN:UNNAMED\r\n")
	assert.NotContains(t, unnamed, "\r\nN:")

	group := readCard(t, filepath.Join(dir, output.GroupsDir, "Family.vcf"))
	assert.Equal(t, strings.Join([]string{
		"BEGIN:VCARD",
		"VERSION:4.0",
		"KIND:group",
		"FN:Family",
		"MEMBER:urn:uuid:uid-2",
		"MEMBER:urn:uuid:uid-1",
		"END:VCARD",
		"",
	}, "\r\n"), group)

	groupFiles, err := os.ReadDir(filepath.Join(dir, output.GroupsDir))
	require.NoError(t, err)
	assert.Len(t, groupFiles, 1)
}

func TestRunUnknownMemberIsFatal(t *testing.T) {
	fx := storetest.New(t)
	fx.AddPerson(storetest.Person{First: storetest.S("Jane")})
	g := fx.AddGroup(storetest.S("Ghosts"))
	fx.AddMember(g, 999)

	st, dir, err := runFixture(t, fx)
	assert.ErrorIs(t, err, ErrUnknownMember)
	assert.Equal(t, 1, st.Contacts)
	assert.Equal(t, 0, st.Groups)
	assert.NoFileExists(t, filepath.Join(dir, output.GroupsDir, "Ghosts.vcf"))
}

func TestRunEmptyAddressBook(t *testing.T) {
	st, dir, err := runFixture(t, storetest.New(t))
	require.NoError(t, err)
	assert.Equal(t, Stats{}, st)
	assert.DirExists(t, filepath.Join(dir, output.GroupsDir))
}
