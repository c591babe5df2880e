package memory

import (
	"context"
	"testing"
	"time"

	"quiz-intake-service/internal/domain"
)

func TestResultStoreFindByEmail(t *testing.T) {
	store := NewResultStore()
	ctx := context.Background()

	if rec, err := store.FindByEmail(ctx, "user@example.com"); err != nil || rec != nil {
		t.Fatalf("expected no match on empty store, got %v %v", rec, err)
	}

	submitted := time.Date(2025, 4, 1, 10, 30, 0, 0, time.UTC)
	err := store.Append(ctx, domain.ResultRecord{
		ID:          "r1",
		SubmittedAt: submitted,
		Email:       "user@example.com",
		Score:       10,
		Outcome:     domain.OutcomePass,
	})
	if err != nil {
		t.Fatalf("append: %v", err)
	}

	rec, err := store.FindByEmail(ctx, "  USER@Example.COM ")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if rec == nil || !rec.SubmittedAt.Equal(submitted) {
		t.Fatalf("expected case-insensitive trimmed match, got %+v", rec)
	}

	if rec, _ := store.FindByEmail(ctx, "other@example.com"); rec != nil {
		t.Fatalf("unexpected match: %+v", rec)
	}
}

func TestResultStoreAppendOnly(t *testing.T) {
	store := NewResultStore()
	ctx := context.Background()

	for _, id := range []string{"r1", "r2"} {
		if err := store.Append(ctx, domain.ResultRecord{ID: id, Email: id + "@example.com"}); err != nil {
			t.Fatalf("append %s: %v", id, err)
		}
	}
	recs := store.Records()
	if len(recs) != 2 || recs[0].ID != "r1" || recs[1].ID != "r2" {
		t.Fatalf("expected ordered records, got %+v", recs)
	}
}
