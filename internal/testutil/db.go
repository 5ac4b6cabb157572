// Package testutil provides an isolated, migrated database per test.
package testutil

import (
	"fmt"
	"io"
	"runtime"
	"strings"
	"testing"

	"tourmarket/internal/database"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// DB returns an in-memory SQLite database named after the test.
func DB(t *testing.T) *gorm.DB {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("skipping sqlite tests on windows")
	}

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)

	db, err := database.Connect(dsn, Logger())
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() { _ = database.Close(db) })
	return db
}

// Logger discards output so test runs stay quiet.
func Logger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}
