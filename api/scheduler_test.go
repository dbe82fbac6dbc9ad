package api

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/warp/loan-engine/store/sqlite"
)

func TestRetentionScheduler_PrunesOldRuns(t *testing.T) {
	// GIVEN: A store with one stale run and one fresh run
	store, err := sqlite.New(":memory:")
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	now := time.Now().UTC()
	if err := store.SaveCalculation(ctx, sqlite.CalculationRecord{
		ID: "calc-stale", CreatedAt: now.AddDate(0, 0, -120),
	}); err != nil {
		t.Fatalf("Failed to save calculation: %v", err)
	}
	if err := store.SaveCalculation(ctx, sqlite.CalculationRecord{
		ID: "calc-fresh", CreatedAt: now,
	}); err != nil {
		t.Fatalf("Failed to save calculation: %v", err)
	}

	// WHEN: Running a prune with the default 90-day retention
	scheduler := NewRetentionScheduler(store, zap.NewNop())
	scheduler.RunNow()

	// THEN: Only the fresh run survives
	records, err := store.ListCalculations(ctx, 0)
	if err != nil {
		t.Fatalf("Failed to list calculations: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("Expected 1 surviving run, got %d", len(records))
	}
	if records[0].ID != "calc-fresh" {
		t.Errorf("Expected calc-fresh to survive, got %s", records[0].ID)
	}
}

func TestRetentionScheduler_DisabledDoesNotStart(t *testing.T) {
	store, err := sqlite.New(":memory:")
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	defer store.Close()

	scheduler := NewRetentionScheduler(store, zap.NewNop())
	scheduler.Enabled = false

	// Start is a no-op when disabled; Stop must still be safe to call.
	scheduler.Start()
	scheduler.Stop()
}
