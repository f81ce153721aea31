package services

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/seid21/topia-estate-be/internal/database"
)

// newTestDB opens a fresh sqlite database in a per-test temp dir and applies
// the schema.
func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := database.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

// insertUser creates a bare user row and returns its id. Goes straight to
// the table to keep bcrypt out of tests that don't need it.
func insertUser(t *testing.T, db *sql.DB, name string) string {
	t.Helper()

	id := uuid.New().String()
	_, err := db.Exec(
		"INSERT INTO users (id, full_name, email, password_hash, role, created_at) VALUES (?, ?, ?, 'x', 'buyer', ?)",
		id, name, name+"@example.com", time.Now().UTC(),
	)
	require.NoError(t, err)
	return id
}
