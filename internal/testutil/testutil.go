// Package testutil provides helpers shared by recipe-finder tests. Helpers that
// need infrastructure (Postgres, Redis, MongoDB) skip the calling test when the
// service is unreachable unless TEST_REQUIRE_INFRA (or the per-service
// TEST_REQUIRE_* variable) is set, in which case they fail it.
package testutil

import (
	"os"
	"strings"
	"time"
)

// TestingTB is an interface that covers both *testing.T and *testing.B.
type TestingTB interface {
	Helper()
	Skip(args ...interface{})
	Skipf(format string, args ...interface{})
	Fatal(args ...interface{})
	Fatalf(format string, args ...interface{})
	Logf(format string, args ...interface{})
}

// getEnvOrDefault returns environment variable value or default.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// envBool parses common truthy values from env vars.
func envBool(key string) bool {
	v := strings.ToLower(os.Getenv(key))
	return v == "1" || v == "true" || v == "yes" || v == "y"
}

func requireDB() bool    { return envBool("TEST_REQUIRE_DB") || envBool("TEST_REQUIRE_INFRA") }
func requireRedis() bool { return envBool("TEST_REQUIRE_REDIS") || envBool("TEST_REQUIRE_INFRA") }
func requireMongo() bool { return envBool("TEST_REQUIRE_MONGO") || envBool("TEST_REQUIRE_INFRA") }

// skipOrFail skips the test, or fails it when the infrastructure is mandatory.
func skipOrFail(t TestingTB, required bool, format string, args ...any) {
	t.Helper()
	if required {
		t.Fatalf(format, args...)
	}
	t.Skipf(format, args...)
}

func registerCleanup(t TestingTB, fn func()) {
	if tc, ok := any(t).(interface{ Cleanup(func()) }); ok {
		tc.Cleanup(fn)
	}
}

// FixedTimeFunc returns a function that always returns the same time.
func FixedTimeFunc(t time.Time) func() time.Time {
	return func() time.Time {
		return t
	}
}

// TestTime returns a fixed time for testing.
func TestTime() time.Time {
	return time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
}
