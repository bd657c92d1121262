package archive

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/baxromumarov/congress-tracker/internal/xmltree"
)

func TestArchiveValues(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "house_votes_2019")
	a, err := Open(dir)
	require.NoError(t, err)

	v, err := xmltree.ParseString(`<rollcall-vote><vote-metadata><rollcall-num>1</rollcall-num></vote-metadata></rollcall-vote>`)
	require.NoError(t, err)

	require.False(t, a.Has("roll1.json"))
	require.NoError(t, a.WriteValue("roll1.json", v))
	require.True(t, a.Has("roll1.json"))

	raw, err := os.ReadFile(filepath.Join(dir, "roll1.json"))
	require.NoError(t, err)
	require.Equal(t, "{\n \"rollcall-vote\": {\n  \"vote-metadata\": {\n   \"rollcall-num\": \"1\"\n  }\n }\n}", string(raw))

	back, err := a.ReadValue("roll1.json")
	require.NoError(t, err)
	require.Equal(t, "1", xmltree.LookupText(back, "rollcall-vote", "vote-metadata", "rollcall-num"))

	_, err = a.ReadValue("roll2.json")
	require.True(t, errors.Is(err, ErrNotFound))
}

func TestArchiveList(t *testing.T) {
	a, err := Open(t.TempDir())
	require.NoError(t, err)

	for _, name := range []string{"roll2.json", "roll10.json", "vote00001.json", "notes.txt"} {
		require.NoError(t, a.WriteFile(name, []byte("{}")))
	}
	require.NoError(t, os.Mkdir(filepath.Join(a.Dir(), "roll3.json"), 0o755))

	names, err := a.List("roll", ".json")
	require.NoError(t, err)
	require.Equal(t, []string{"roll10.json", "roll2.json"}, names)

	// No temp files are left behind by writes.
	all, err := a.List("", "")
	require.NoError(t, err)
	require.Equal(t, []string{"notes.txt", "roll10.json", "roll2.json", "vote00001.json"}, all)
}

func TestArchiveJSON(t *testing.T) {
	a, err := Open(t.TempDir())
	require.NoError(t, err)

	type payload struct {
		LastBill int `json:"last_bill"`
	}
	require.NoError(t, a.WriteJSON("House_bills_2019.json", payload{LastBill: 4}))

	var got payload
	require.NoError(t, a.ReadJSON("House_bills_2019.json", &got))
	require.Equal(t, 4, got.LastBill)

	raw, err := a.ReadFile("House_bills_2019.json")
	require.NoError(t, err)
	require.Equal(t, "{\n \"last_bill\": 4\n}", string(raw))
}

func TestArchiveRejectsPaths(t *testing.T) {
	a, err := Open(t.TempDir())
	require.NoError(t, err)

	require.Error(t, a.WriteFile("../escape.json", []byte("x")))
	require.Error(t, a.WriteFile("", []byte("x")))
	require.False(t, a.Has("../escape.json"))

	_, err = Open("")
	require.Error(t, err)
}

func TestOpenReadOnlyMissingDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "congress_votes_2003")
	a, err := OpenReadOnly(dir)
	require.NoError(t, err)

	names, err := a.List("roll", ".json")
	require.NoError(t, err)
	require.Empty(t, names)
	require.False(t, a.Has("roll001.json"))
	_, err = a.ReadFile("roll001.json")
	require.ErrorIs(t, err, ErrNotFound)

	_, err = os.Stat(dir)
	require.ErrorIs(t, err, os.ErrNotExist)

	_, err = OpenReadOnly("")
	require.Error(t, err)
}
