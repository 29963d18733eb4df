package migrations

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLatestVersion(t *testing.T) {
	v, err := LatestVersion()
	require.NoError(t, err)
	assert.Equal(t, uint(1), v)
}

func TestEveryUpHasDown(t *testing.T) {
	names, err := fs.Glob(migrationFiles, "files/*.sql")
	require.NoError(t, err)
	require.NotEmpty(t, names)

	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	for _, n := range names {
		if strings.HasSuffix(n, ".up.sql") {
			assert.True(t, set[strings.TrimSuffix(n, ".up.sql")+".down.sql"], n)
		}
	}
}

func TestInitialSchemaCreatesEveryTable(t *testing.T) {
	raw, err := fs.ReadFile(migrationFiles, "files/000001_init_schema.up.sql")
	require.NoError(t, err)
	sql := string(raw)
	for _, table := range []string{
		"users", "memberships", "notebooks", "notes", "attachments",
		"transcription_sessions", "transcription_segments",
		"notebook_folders", "notebook_folder_items",
		"flashcard_folders", "flashcards", "flashcard_folder_items",
		"quiz_folders", "quiz_questions", "quiz_folder_items", "quiz_attempts",
		"mindmaps",
	} {
		assert.Contains(t, sql, "CREATE TABLE "+table+" (", table)
	}
	assert.Contains(t, sql, "uq_notes_seq ON notes (notebook_id, seq)")
}

func TestStatusPending(t *testing.T) {
	assert.Equal(t, uint(2), Status{Version: 1, Latest: 3}.Pending())
	assert.Equal(t, uint(0), Status{Version: 3, Latest: 3}.Pending())
}
