package testutil

import (
	"os"
	"testing"

	"github.com/kendall-kelly/shopfloor-tracker-api/config"
	"github.com/kendall-kelly/shopfloor-tracker-api/models"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// RequireTestEnvironment ensures that tests are running in the test environment.
// This prevents accidental execution of tests against production or development databases.
func RequireTestEnvironment(t *testing.T) {
	t.Helper()

	if env := os.Getenv("GO_ENV"); env != "test" {
		t.Fatalf("SAFETY CHECK FAILED: Tests must run with GO_ENV=test to prevent data loss. Current GO_ENV=%q. Set GO_ENV=test before running tests.", env)
	}
}

// MustSetTestEnvironment sets GO_ENV to test and fails if it cannot be set.
// Use this in TestMain or suite setup functions.
func MustSetTestEnvironment(t *testing.T) {
	t.Helper()

	require.NoError(t, os.Setenv("GO_ENV", "test"), "Failed to set GO_ENV=test")
	require.Equal(t, "test", os.Getenv("GO_ENV"), "Failed to verify GO_ENV=test")
}

// OpenTestDB opens a migrated in-memory SQLite database on a single
// connection and closes it when the test ends.
func OpenTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err, "Failed to connect to test database")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, models.AutoMigrate(db), "Failed to migrate test database")
	return db
}

// TestConfig returns a configuration suitable for router tests. Auth is
// disabled unless auth0Domain is non-empty.
func TestConfig(auth0Domain string) *config.Config {
	return &config.Config{
		DatabaseURL:        ":memory:",
		Port:               "8080",
		GoEnv:              "test",
		Auth0Domain:        auth0Domain,
		Auth0Audience:      "https://api.test.com",
		AWSRegion:          "us-east-1",
		AWSS3Bucket:        "test-bucket",
		LogLevel:           "error",
		MaxCascadeSize:     config.DefaultMaxCascadeSize,
		MaxPageSize:        config.DefaultMaxPageSize,
		CORSAllowedOrigins: []string{"*"},
	}
}
