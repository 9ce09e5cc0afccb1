package database

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type widget struct {
	ID   uint `gorm:"primaryKey"`
	Name string
}

func TestOpenSQLiteAndMigrate(t *testing.T) {
	ctx := context.Background()
	db, err := Open(ctx, "sqlite:file:database_test?mode=memory&cache=shared", Options{})
	require.NoError(t, err)

	require.NoError(t, Migrate(db, &widget{}))
	assert.True(t, db.Migrator().HasTable(&widget{}))

	require.NoError(t, db.Create(&widget{Name: "gear"}).Error)
	var got widget
	require.NoError(t, db.First(&got).Error)
	assert.Equal(t, "gear", got.Name)

	assert.NoError(t, Ping(ctx, db))
}

func TestSQLitePath(t *testing.T) {
	cases := map[string]struct {
		path string
		ok   bool
	}{
		"sqlite://data/app.db":           {"data/app.db", true},
		"sqlite::memory:":                {":memory:", true},
		"file:x?mode=memory":             {"file:x?mode=memory", true},
		"postgres://u:p@localhost:5432/": {"", false},
	}
	for dsn, want := range cases {
		path, ok := sqlitePath(dsn)
		assert.Equal(t, want.ok, ok, dsn)
		assert.Equal(t, want.path, path, dsn)
	}
}

func TestBackoffCapsDelay(t *testing.T) {
	b := backoff{delay: 500 * time.Millisecond, maxDelay: 5 * time.Second}
	assert.Equal(t, 500*time.Millisecond, b.nextDelay(0))
	assert.Equal(t, 2*time.Second, b.nextDelay(2))
	assert.Equal(t, 5*time.Second, b.nextDelay(10))
}
