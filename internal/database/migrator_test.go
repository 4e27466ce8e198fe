package database

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedMigrations(t *testing.T) {
	m := NewMigrator(nil)
	files, err := m.Files()
	require.NoError(t, err)
	require.NotEmpty(t, files)
	assert.Equal(t, "001_init.sql", files[0])

	content, err := fs.ReadFile(m.files, files[0])
	require.NoError(t, err)
	sql := string(content)
	for _, table := range []string{"buildings", "rooms", "students", "guests", "assets", "bills", "users"} {
		assert.True(t, strings.Contains(sql, "CREATE TABLE IF NOT EXISTS "+table+" "), table)
	}
	assert.Contains(t, sql, "students_student_code_key")
	assert.Contains(t, sql, "users_username_key")
}
