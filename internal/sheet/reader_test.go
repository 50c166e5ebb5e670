package sheet

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRead(t *testing.T) {
	input := "\ufeffTeam Name (टीम का नाम):,Player Full Name,Gender\n" +
		"Red Hawks,Asha Rao,F\n" +
		",,\n" +
		"Blue Jays,\"Rao, Vikram\"\n"

	rows, err := Read(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, 2, rows[0].Line)
	assert.Equal(t, "Team Name (टीम का नाम):", rows[0].Cells[0].Header, "byte order mark is stripped")
	assert.Equal(t, "Asha Rao", rows[0].Cells[1].Value)

	assert.Equal(t, 4, rows[1].Line)
	assert.Equal(t, "Rao, Vikram", rows[1].Cells[1].Value)
	assert.Equal(t, "Gender", rows[1].Cells[2].Header)
	assert.Equal(t, "", rows[1].Cells[2].Value, "short rows are padded")
}

func TestRead_KeepsDuplicateHeadersInOrder(t *testing.T) {
	rows, err := Read(strings.NewReader("Name,Name\nfirst,second\n"))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, []string{"Name", "Name"}, rows[0].Headers())
	assert.Equal(t, "first", rows[0].Cells[0].Value)
}

func TestRead_Empty(t *testing.T) {
	_, err := Read(strings.NewReader(""))
	assert.ErrorIs(t, err, ErrNoHeader)

	rows, err := Read(strings.NewReader("Team Name\n"))
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "players.csv")
	require.NoError(t, os.WriteFile(path, []byte("Team Name\nRed Hawks\n"), 0o600))

	rows, err := ReadFile(path)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	_, err = ReadFile(filepath.Join(t.TempDir(), "nope.csv"))
	assert.Error(t, err)
}
