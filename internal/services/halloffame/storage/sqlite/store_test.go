package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/louisbranch/finalfrontier/internal/services/halloffame/domain/ledger"
	"github.com/louisbranch/finalfrontier/internal/services/halloffame/storage"
)

func TestOpenRequiresPath(t *testing.T) {
	t.Parallel()

	if _, err := Open(""); err == nil {
		t.Fatal("expected empty path error")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	ctx := context.Background()
	entries := []ledger.LogbookEntry{
		{Time: 10, Code: "L+", Name: "Jebediah Kerman"},
		{Time: 400.5, Code: "S1", Name: "Jebediah Kerman"},
		{Time: 1000, Code: "S+", Name: "Bill Kerman", Data: "12.5"},
	}
	if err := store.Save(ctx, "career", entries); err != nil {
		t.Fatalf("save: %v", err)
	}

	session, got, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if session != "career" {
		t.Fatalf("session = %q, want career", session)
	}
	assertEntries(t, got, entries)
}

func TestSaveReplacesSession(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	ctx := context.Background()
	if err := store.Save(ctx, "career", []ledger.LogbookEntry{{Time: 1, Code: "S1", Name: "Jeb"}, {Time: 2, Code: "O1:Kerbin", Name: "Jeb"}}); err != nil {
		t.Fatalf("first save: %v", err)
	}
	replacement := []ledger.LogbookEntry{{Time: 1, Code: "S1", Name: "Jeb"}}
	if err := store.Save(ctx, "career", replacement); err != nil {
		t.Fatalf("second save: %v", err)
	}
	got, err := store.LoadSession(ctx, "career")
	if err != nil {
		t.Fatalf("load session: %v", err)
	}
	assertEntries(t, got, replacement)
}

func TestAppendContinuesOrdinals(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	ctx := context.Background()
	first := []ledger.LogbookEntry{{Time: 1, Code: "L+", Name: "Val"}}
	second := []ledger.LogbookEntry{{Time: 2, Code: "S1", Name: "Val"}, {Time: 3, Code: "R+", Name: "Val"}}
	if err := store.Append(ctx, "s", first); err != nil {
		t.Fatalf("append first: %v", err)
	}
	if err := store.Append(ctx, "s", second); err != nil {
		t.Fatalf("append second: %v", err)
	}
	got, err := store.LoadSession(ctx, "s")
	if err != nil {
		t.Fatalf("load session: %v", err)
	}
	assertEntries(t, got, append(first, second...))
}

func TestLoadPicksLatestSession(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	store.now = func() time.Time { return time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC) }
	ctx := context.Background()
	for _, id := range []string{"a", "b"} {
		if err := store.Save(ctx, id, []ledger.LogbookEntry{{Time: 1, Code: "L+", Name: id}}); err != nil {
			t.Fatalf("save %s: %v", id, err)
		}
	}
	if err := store.Append(ctx, "a", []ledger.LogbookEntry{{Time: 2, Code: "R+", Name: "a"}}); err != nil {
		t.Fatalf("append: %v", err)
	}

	session, got, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if session != "a" || len(got) != 2 {
		t.Fatalf("load = %q with %d entries, want a with 2", session, len(got))
	}

	sessions, err := store.Sessions(ctx)
	if err != nil {
		t.Fatalf("sessions: %v", err)
	}
	if len(sessions) != 2 || sessions[0].ID != "a" || sessions[0].Records != 2 || sessions[1].Records != 1 {
		t.Fatalf("sessions = %+v", sessions)
	}
}

func TestLoadReturnsNotFound(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	if _, _, err := store.Load(context.Background()); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("load empty store err = %v, want %v", err, storage.ErrNotFound)
	}
	if _, err := store.LoadSession(context.Background(), "missing"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("load missing session err = %v, want %v", err, storage.ErrNotFound)
	}
}

func TestSaveEmptySessionIsKept(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	if err := store.Save(context.Background(), "empty", nil); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := store.LoadSession(context.Background(), "empty")
	if err != nil {
		t.Fatalf("load session: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("entries = %+v, want none", got)
	}
}

func TestStoreGuards(t *testing.T) {
	t.Parallel()

	var nilStore *Store
	if err := nilStore.Save(context.Background(), "s", nil); err == nil {
		t.Fatal("expected unconfigured storage error")
	}
	if err := nilStore.Close(); err != nil {
		t.Fatalf("close nil store: %v", err)
	}

	store := openTempStore(t)
	if err := store.Append(context.Background(), "  ", nil); err == nil {
		t.Fatal("expected session id error")
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := store.Save(ctx, "s", nil); !errors.Is(err, context.Canceled) {
		t.Fatalf("save with canceled context err = %v", err)
	}
}

func TestMigrationsAreRecorded(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	names, err := store.Migrations(context.Background())
	if err != nil {
		t.Fatalf("migrations: %v", err)
	}
	if len(names) != 1 || names[0] != "001_logbook.sql" {
		t.Fatalf("migrations = %v", names)
	}
}

func TestNewSessionIDIsUnique(t *testing.T) {
	t.Parallel()

	if a, b := NewSessionID(), NewSessionID(); a == "" || a == b {
		t.Fatalf("session ids %q and %q", a, b)
	}
}

func assertEntries(t *testing.T, got, want []ledger.LogbookEntry) {
	t.Helper()

	if len(got) != len(want) {
		t.Fatalf("entries = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("entry %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func openTempStore(t *testing.T) *Store {
	t.Helper()

	store, err := Open(filepath.Join(t.TempDir(), "logbook.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Fatalf("close store: %v", err)
		}
	})
	return store
}
