package indexer

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/slipstream/crossmatch/internal/testutil"
)

func newTestService(t *testing.T) (*Service, *testutil.TestDB) {
	t.Helper()
	tdb := testutil.NewTestDB(t)
	return NewService(tdb.Conn, &tdb.Logger), tdb
}

func TestIndexerService_Create(t *testing.T) {
	service, tdb := newTestService(t)
	defer tdb.Close()
	ctx := context.Background()

	idx, err := service.Create(ctx, CreateIndexerInput{Name: "Alpha", URL: "https://alpha.example/api"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if idx.ID == 0 {
		t.Error("Create() ID = 0, want non-zero")
	}
	if !idx.Enabled {
		t.Error("Create() Enabled = false, want true by default")
	}
	if idx.Name != "Alpha" {
		t.Errorf("Create() Name = %q, want %q", idx.Name, "Alpha")
	}

	unnamed, err := service.Create(ctx, CreateIndexerInput{URL: "http://beta.example:9117/torznab"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if unnamed.Name != "beta.example:9117" {
		t.Errorf("Create() Name = %q, want host fallback", unnamed.Name)
	}
}

func TestIndexerService_CreateInvalid(t *testing.T) {
	service, tdb := newTestService(t)
	defer tdb.Close()
	ctx := context.Background()

	tests := []struct {
		name string
		url  string
	}{
		{"empty", ""},
		{"no scheme", "alpha.example"},
		{"ftp", "ftp://alpha.example"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.Create(ctx, CreateIndexerInput{URL: tt.url})
			if !errors.Is(err, ErrInvalidIndexer) {
				t.Errorf("Create(%q) error = %v, want ErrInvalidIndexer", tt.url, err)
			}
		})
	}

	if _, err := service.Create(ctx, CreateIndexerInput{URL: "https://dup.example"}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if _, err := service.Create(ctx, CreateIndexerInput{URL: "https://dup.example"}); !errors.Is(err, ErrDuplicateURL) {
		t.Errorf("Create() duplicate error = %v, want ErrDuplicateURL", err)
	}
}

func TestIndexerService_GetNotFound(t *testing.T) {
	service, tdb := newTestService(t)
	defer tdb.Close()

	_, err := service.Get(context.Background(), 999)
	if !errors.Is(err, ErrIndexerNotFound) {
		t.Errorf("Get() error = %v, want ErrIndexerNotFound", err)
	}
	if GetErrorCode(err) != ErrCodeNotFound {
		t.Errorf("GetErrorCode() = %q, want %q", GetErrorCode(err), ErrCodeNotFound)
	}
}

func TestIndexerService_ListEnabled(t *testing.T) {
	service, tdb := newTestService(t)
	defer tdb.Close()
	ctx := context.Background()

	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	service.SetClock(testutil.FixedClock(now))

	disabled := false
	a, _ := service.Create(ctx, CreateIndexerInput{Name: "a", URL: "https://a.example"})
	b, _ := service.Create(ctx, CreateIndexerInput{Name: "b", URL: "https://b.example", Enabled: &disabled})
	c, _ := service.Create(ctx, CreateIndexerInput{Name: "c", URL: "https://c.example"})
	d, _ := service.Create(ctx, CreateIndexerInput{Name: "d", URL: "https://d.example"})

	future := now.Add(time.Hour)
	if err := service.SetRetryAfter(ctx, c.ID, "rate limited", &future); err != nil {
		t.Fatalf("SetRetryAfter() error = %v", err)
	}
	past := now.Add(-time.Minute)
	if err := service.SetRetryAfter(ctx, d.ID, "rate limited", &past); err != nil {
		t.Fatalf("SetRetryAfter() error = %v", err)
	}

	enabled, err := service.ListEnabled(ctx)
	if err != nil {
		t.Fatalf("ListEnabled() error = %v", err)
	}
	got := IDs(enabled)
	want := []int64{a.ID, d.ID}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("ListEnabled() ids = %v, want %v", got, want)
	}

	all, err := service.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(all) != 4 {
		t.Errorf("List() returned %d, want 4", len(all))
	}
	for _, idx := range all {
		if idx.ID == b.ID && idx.Available(now) {
			t.Error("disabled indexer reported available")
		}
		if idx.ID == c.ID && idx.Available(now) {
			t.Error("indexer inside retry window reported available")
		}
	}
}

func TestIndexerService_ListEnabledReadsFresh(t *testing.T) {
	service, tdb := newTestService(t)
	defer tdb.Close()
	ctx := context.Background()

	idx, _ := service.Create(ctx, CreateIndexerInput{URL: "https://a.example"})

	before, _ := service.ListEnabled(ctx)
	if len(before) != 1 {
		t.Fatalf("ListEnabled() returned %d, want 1", len(before))
	}

	updated, err := service.SetEnabled(ctx, idx.ID, false)
	if err != nil {
		t.Fatalf("SetEnabled() error = %v", err)
	}
	if updated.Enabled {
		t.Error("SetEnabled(false) returned Enabled = true")
	}

	after, _ := service.ListEnabled(ctx)
	if len(after) != 0 {
		t.Errorf("ListEnabled() after disable returned %d, want 0", len(after))
	}

	if _, err := service.SetEnabled(ctx, 999, true); !errors.Is(err, ErrIndexerNotFound) {
		t.Errorf("SetEnabled() unknown id error = %v, want ErrIndexerNotFound", err)
	}
}

func TestIndexerService_SetRetryAfterClears(t *testing.T) {
	service, tdb := newTestService(t)
	defer tdb.Close()
	ctx := context.Background()

	idx, _ := service.Create(ctx, CreateIndexerInput{URL: "https://a.example"})
	until := time.Now().Add(time.Hour)
	if err := service.SetRetryAfter(ctx, idx.ID, "rate limited", &until); err != nil {
		t.Fatalf("SetRetryAfter() error = %v", err)
	}

	got, _ := service.Get(ctx, idx.ID)
	if got.RetryAfter == nil || got.Status != "rate limited" {
		t.Fatalf("Get() RetryAfter = %v Status = %q, want set", got.RetryAfter, got.Status)
	}

	if err := service.SetRetryAfter(ctx, idx.ID, "", nil); err != nil {
		t.Fatalf("SetRetryAfter() clear error = %v", err)
	}
	got, _ = service.Get(ctx, idx.ID)
	if got.RetryAfter != nil || got.Status != "" {
		t.Errorf("Get() after clear RetryAfter = %v Status = %q, want empty", got.RetryAfter, got.Status)
	}

	if err := service.SetRetryAfter(ctx, 999, "", nil); !errors.Is(err, ErrIndexerNotFound) {
		t.Errorf("SetRetryAfter() unknown id error = %v, want ErrIndexerNotFound", err)
	}
}

func TestIndexerService_Delete(t *testing.T) {
	service, tdb := newTestService(t)
	defer tdb.Close()
	ctx := context.Background()

	idx, _ := service.Create(ctx, CreateIndexerInput{URL: "https://a.example"})
	if err := service.Delete(ctx, idx.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := service.Get(ctx, idx.ID); !errors.Is(err, ErrIndexerNotFound) {
		t.Errorf("Get() after delete error = %v, want ErrIndexerNotFound", err)
	}
	if err := service.Delete(ctx, idx.ID); !errors.Is(err, ErrIndexerNotFound) {
		t.Errorf("Delete() twice error = %v, want ErrIndexerNotFound", err)
	}
}
