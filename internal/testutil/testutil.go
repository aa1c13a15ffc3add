// Package testutil provides shared helpers for DB-backed tests. Tests run
// against a pure-Go sqlite driver, which is why production SQL sticks to the
// portable subset (LOWER/LIKE, plain aggregates).
package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/example/nairacardigans/internal/database"
)

// NewTestDB opens a fresh sqlite database in a per-test temp dir and runs
// the full migration set.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}

	return db
}

// FakePaystack is a stub gateway server. VerifyStatus controls what the
// verify endpoint reports; the call counters let tests assert that the
// already-verified short-circuit skips the provider.
type FakePaystack struct {
	Server *httptest.Server

	VerifyStatus string // "success", "failed", ...
	InitFail     bool

	initCalls   atomic.Int64
	verifyCalls atomic.Int64
}

// NewFakePaystack starts a stub gateway. The server is shut down with the test.
func NewFakePaystack(t *testing.T) *FakePaystack {
	t.Helper()

	f := &FakePaystack{VerifyStatus: "success"}

	mux := http.NewServeMux()
	mux.HandleFunc("/transaction/initialize", func(w http.ResponseWriter, r *http.Request) {
		f.initCalls.Add(1)
		if f.InitFail {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]any{"status": false, "message": "declined"})
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"status": true,
			"data": map[string]any{
				"authorization_url": "https://checkout.example.test/redirect",
				"access_code":       "ACCESS123",
			},
		})
	})
	mux.HandleFunc("/transaction/verify/", func(w http.ResponseWriter, r *http.Request) {
		f.verifyCalls.Add(1)
		json.NewEncoder(w).Encode(map[string]any{
			"status": true,
			"data":   map[string]any{"status": f.VerifyStatus, "amount": 0},
		})
	})

	f.Server = httptest.NewServer(mux)
	t.Cleanup(f.Server.Close)

	return f
}

// InitCalls returns how many initialize requests the stub has served.
func (f *FakePaystack) InitCalls() int64 { return f.initCalls.Load() }

// VerifyCalls returns how many verify requests the stub has served.
func (f *FakePaystack) VerifyCalls() int64 { return f.verifyCalls.Load() }
