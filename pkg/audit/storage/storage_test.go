package storage

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/biswatma/zerocoder/pkg/audit"
	"github.com/biswatma/zerocoder/pkg/config"
)

var baseTime = time.Date(2026, 1, 2, 10, 0, 0, 0, time.UTC)

func sampleRecords() []*audit.Record {
	return []*audit.Record{
		{ID: "a", RequestID: "req-a", Engine: "gemini", Model: "gemini-2.0-flash", PromptHash: audit.HashPrompt("a"),
			Status: audit.StatusSuccess, Chunks: 4, ResponseBytes: 2048, ExtractionStrategy: "document",
			StartedAt: baseTime, Duration: 1500 * time.Millisecond},
		{ID: "b", RequestID: "req-b", Engine: "openrouter", IsEdit: true, PromptHash: audit.HashPrompt("b"),
			Status: audit.StatusError, ErrorType: "upstream_status", ErrorMessage: "openrouter API request failed with status 502: bad gateway",
			StartedAt: baseTime.Add(time.Hour), Duration: 200 * time.Millisecond},
		{ID: "c", RequestID: "req-c", Engine: "lmstudio", PromptHash: audit.HashPrompt("c"),
			Status: audit.StatusCancelled, Chunks: 1, ResponseBytes: 12, ClientDisconnected: true,
			StartedAt: baseTime.Add(2 * time.Hour), Duration: 3 * time.Second},
		{ID: "d", RequestID: "req-d", Engine: "gemini", PromptHash: audit.HashPrompt("d"),
			Status: audit.StatusSuccess, Chunks: 2, ResponseBytes: 900,
			StartedAt: baseTime.Add(3 * time.Hour), Duration: time.Second},
	}
}

func ids(records []*audit.Record) string {
	parts := make([]string, len(records))
	for i, r := range records {
		parts[i] = r.ID
	}
	return strings.Join(parts, ",")
}

// runStorageTests checks the behaviour every backend shares.
func runStorageTests(t *testing.T, newStore func(t *testing.T) audit.Storage) {
	ctx := context.Background()

	t.Run("store and query", func(t *testing.T) {
		s := newStore(t)
		for _, r := range sampleRecords() {
			if err := s.Store(ctx, r); err != nil {
				t.Fatalf("Store(%s) error = %v", r.ID, err)
			}
		}

		tests := []struct {
			name  string
			query *audit.Query
			want  string
			count int64
		}{
			{name: "all newest first", query: &audit.Query{}, want: "d,c,b,a", count: 4},
			{name: "by engine", query: &audit.Query{Engine: "gemini"}, want: "d,a", count: 2},
			{name: "by status", query: &audit.Query{Status: audit.StatusError}, want: "b", count: 1},
			{name: "time window", query: &audit.Query{Since: baseTime.Add(time.Hour), Until: baseTime.Add(3 * time.Hour)}, want: "c,b", count: 2},
			{name: "limit", query: &audit.Query{Limit: 2}, want: "d,c", count: 4},
			{name: "offset", query: &audit.Query{Offset: 3}, want: "a", count: 4},
			{name: "offset past end", query: &audit.Query{Offset: 10}, want: "", count: 4},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				got, err := s.Query(ctx, tt.query)
				if err != nil {
					t.Fatalf("Query() error = %v", err)
				}
				if ids(got) != tt.want {
					t.Errorf("Query() = %s, want %s", ids(got), tt.want)
				}
				n, err := s.Count(ctx, tt.query)
				if err != nil {
					t.Fatalf("Count() error = %v", err)
				}
				if n != tt.count {
					t.Errorf("Count() = %d, want %d", n, tt.count)
				}
			})
		}
	})

	t.Run("fields round trip", func(t *testing.T) {
		s := newStore(t)
		want := sampleRecords()[1]
		if err := s.Store(ctx, want); err != nil {
			t.Fatalf("Store() error = %v", err)
		}

		got, err := s.Query(ctx, &audit.Query{})
		if err != nil || len(got) != 1 {
			t.Fatalf("Query() = %v, %v", got, err)
		}
		r := got[0]
		if r.RequestID != want.RequestID || r.Engine != want.Engine || r.IsEdit != want.IsEdit ||
			r.PromptHash != want.PromptHash || r.Status != want.Status || r.ErrorType != want.ErrorType ||
			r.ErrorMessage != want.ErrorMessage || r.Duration != want.Duration || !r.StartedAt.Equal(want.StartedAt) {
			t.Errorf("round trip mismatch:\n got %+v\nwant %+v", r, want)
		}
	})

	t.Run("delete before", func(t *testing.T) {
		s := newStore(t)
		for _, r := range sampleRecords() {
			_ = s.Store(ctx, r)
		}

		deleted, err := s.DeleteBefore(ctx, baseTime.Add(90*time.Minute))
		if err != nil {
			t.Fatalf("DeleteBefore() error = %v", err)
		}
		if deleted != 2 {
			t.Errorf("deleted = %d, want 2", deleted)
		}
		got, _ := s.Query(ctx, nil)
		if ids(got) != "d,c" {
			t.Errorf("remaining = %s, want d,c", ids(got))
		}
	})

	t.Run("ping", func(t *testing.T) {
		if err := newStore(t).Ping(ctx); err != nil {
			t.Errorf("Ping() error = %v", err)
		}
	})
}

func TestMemoryStorage(t *testing.T) {
	runStorageTests(t, func(t *testing.T) audit.Storage {
		s := NewMemoryStorage(0)
		t.Cleanup(func() { s.Close() })
		return s
	})
}

func TestMemoryStorageEvictsOldest(t *testing.T) {
	s := NewMemoryStorage(2)
	ctx := context.Background()
	for _, r := range sampleRecords() {
		_ = s.Store(ctx, r)
	}

	got, _ := s.Query(ctx, nil)
	if ids(got) != "d,c" {
		t.Errorf("records = %s, want d,c", ids(got))
	}
}

func TestMemoryStorageCopiesRecords(t *testing.T) {
	s := NewMemoryStorage(0)
	ctx := context.Background()
	r := sampleRecords()[0]
	_ = s.Store(ctx, r)
	r.Status = audit.StatusError

	got, _ := s.Query(ctx, nil)
	if got[0].Status != audit.StatusSuccess {
		t.Error("stored record changed with caller's copy")
	}
}

func openSQLite(t *testing.T, driver string) audit.Storage {
	t.Helper()
	cfg := config.SQLiteConfig{
		Path:         filepath.Join(t.TempDir(), "data", "audit.db"),
		Driver:       driver,
		MaxOpenConns: 4,
		MaxIdleConns: 2,
		WALMode:      true,
		BusyTimeout:  time.Second,
	}
	s, err := NewSQLiteStorage(cfg)
	if err != nil {
		if driver == DriverMattn && strings.Contains(err.Error(), "cgo") {
			t.Skipf("%s driver unavailable: %v", driver, err)
		}
		t.Fatalf("NewSQLiteStorage() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLiteStorage(t *testing.T) {
	for _, driver := range []string{DriverModernc, DriverMattn} {
		t.Run(driver, func(t *testing.T) {
			runStorageTests(t, func(t *testing.T) audit.Storage {
				return openSQLite(t, driver)
			})
		})
	}
}

func TestSQLiteStorageReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.db")
	cfg := config.SQLiteConfig{Path: path, Driver: DriverModernc, BusyTimeout: time.Second}

	s, err := NewSQLiteStorage(cfg)
	if err != nil {
		t.Fatalf("NewSQLiteStorage() error = %v", err)
	}
	_ = s.Store(context.Background(), sampleRecords()[0])
	s.Close()

	s, err = NewSQLiteStorage(cfg)
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer s.Close()

	n, err := s.Count(context.Background(), nil)
	if err != nil || n != 1 {
		t.Errorf("Count() after reopen = %d, %v; want 1", n, err)
	}
}

func TestBuildDSN(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.SQLiteConfig
		want    string
		wantErr bool
	}{
		{
			name: "modernc with wal",
			cfg:  config.SQLiteConfig{Path: "data/audit.db", Driver: DriverModernc, WALMode: true, BusyTimeout: 5 * time.Second},
			want: "file:data/audit.db?_pragma=busy_timeout%285000%29&_pragma=journal_mode%28WAL%29",
		},
		{
			name: "mattn without wal",
			cfg:  config.SQLiteConfig{Path: "audit.db", Driver: DriverMattn, BusyTimeout: time.Second},
			want: "file:audit.db?_busy_timeout=1000",
		},
		{
			name:    "unknown driver",
			cfg:     config.SQLiteConfig{Path: "audit.db", Driver: "postgres"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := buildDSN(tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("buildDSN() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("buildDSN() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestOpen(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.AuditConfig
		wantErr bool
	}{
		{name: "memory", cfg: config.AuditConfig{Backend: "memory"}},
		{name: "default", cfg: config.AuditConfig{}},
		{name: "sqlite", cfg: config.AuditConfig{Backend: "sqlite", SQLite: config.SQLiteConfig{
			Path: filepath.Join(t.TempDir(), "audit.db"), Driver: DriverModernc,
		}}},
		{name: "unknown", cfg: config.AuditConfig{Backend: "postgres"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Open(tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Open() error = %v, wantErr %v", err, tt.wantErr)
			}
			if s != nil {
				s.Close()
			}
		})
	}
}
