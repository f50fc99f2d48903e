package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talentscout/talentscout/internal/candidate"
)

func TestRepair_RemovesCollisions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "candidates.json")
	writeRecords(t, path, []candidate.Record{
		{Name: "first", Email: "a@x.com", Phone: "1"},
		{Name: "same email", Email: "a@x.com", Phone: "2"},
		{Name: "same phone", Email: "b@x.com", Phone: "1"},
	})

	removed, err := Repair(path)
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	left := NewReader(path).LoadAll()
	require.Len(t, left, 1)
	assert.Equal(t, "first", left[0].Name)
}

func TestRepair_NoDuplicatesLeavesFileUntouched(t *testing.T) {
	path := filepath.Join(t.TempDir(), "candidates.json")
	writeRecords(t, path, []candidate.Record{
		{Email: "a@x.com", Phone: "1"},
		{Email: "b@x.com", Phone: "2"},
	})
	before, err := os.Stat(path)
	require.NoError(t, err)

	removed, err := Repair(path)
	require.NoError(t, err)
	assert.Equal(t, 0, removed)

	after, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, before.ModTime(), after.ModTime())
}

func TestRepair_CaseAndBlankFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "candidates.json")
	writeRecords(t, path, []candidate.Record{
		{Email: "A@X.com", Phone: ""},
		{Email: "a@x.com ", Phone: "9"},
		{Email: "", Phone: ""},
		{Email: "", Phone: ""},
	})

	removed, err := Repair(path)
	require.NoError(t, err)
	assert.Equal(t, 1, removed, "blank identity fields never collide")
	assert.Len(t, NewReader(path).LoadAll(), 3)
}

func TestRepair_MissingFile(t *testing.T) {
	removed, err := Repair(filepath.Join(t.TempDir(), "absent.json"))
	require.NoError(t, err)
	assert.Equal(t, 0, removed)
}
