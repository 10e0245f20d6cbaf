package locations_test

import (
	"context"
	"testing"
	"time"

	"waymark/internal/locations"
	"waymark/internal/testsupport"
)

// Scenario from the eviction policy: ceiling=5, seven pending rows with
// strictly ascending timestamps. The oldest two are evicted along the way and
// rows 3..7 survive.
func TestEvictionSevenPendingCeilingFive(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenLocations(t, cfg)
	ctx := context.Background()

	keys := make([]string, 0, 7)
	for i := 0; i < 7; i++ {
		loc, err := store.Enqueue(ctx, fixAt(baseTime().Add(time.Duration(i)*time.Minute)), 5)
		if err != nil {
			t.Fatalf("Enqueue %d failed: %v", i+1, err)
		}
		keys = append(keys, loc.IdempotencyKey)
	}

	remaining, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(remaining) != 5 {
		t.Fatalf("expected 5 surviving rows, got %d", len(remaining))
	}
	surviving := make(map[string]struct{}, len(remaining))
	for _, loc := range remaining {
		surviving[loc.IdempotencyKey] = struct{}{}
	}
	for i, key := range keys {
		_, alive := surviving[key]
		if i < 2 && alive {
			t.Fatalf("expected row %d evicted", i+1)
		}
		if i >= 2 && !alive {
			t.Fatalf("expected row %d to survive", i+1)
		}
	}
}

// Scenario from the eviction policy: ceiling=3 with [synced@t1, pending@t2,
// syncing@t3]; inserting pending@t4 deletes the synced row in pass 1 and the
// oldest pending row in pass 2, leaving {syncing@t3, pending@t4}.
func TestEvictionProtectsSyncingRows(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenLocations(t, cfg)
	ctx := context.Background()

	synced, err := store.Enqueue(ctx, fixAt(baseTime()), noCeiling)
	if err != nil {
		t.Fatalf("Enqueue synced failed: %v", err)
	}
	if _, err := store.MarkSyncing(ctx, synced.ID); err != nil {
		t.Fatalf("MarkSyncing failed: %v", err)
	}
	if _, err := store.MarkSynced(ctx, synced.ID); err != nil {
		t.Fatalf("MarkSynced failed: %v", err)
	}

	pending, err := store.Enqueue(ctx, fixAt(baseTime().Add(time.Minute)), noCeiling)
	if err != nil {
		t.Fatalf("Enqueue pending failed: %v", err)
	}

	syncing, err := store.Enqueue(ctx, fixAt(baseTime().Add(2*time.Minute)), noCeiling)
	if err != nil {
		t.Fatalf("Enqueue syncing failed: %v", err)
	}
	if _, err := store.MarkSyncing(ctx, syncing.ID); err != nil {
		t.Fatalf("MarkSyncing failed: %v", err)
	}

	inserted, err := store.Enqueue(ctx, fixAt(baseTime().Add(3*time.Minute)), 3)
	if err != nil {
		t.Fatalf("Enqueue trigger failed: %v", err)
	}

	remaining, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(remaining) != 2 {
		t.Fatalf("expected 2 surviving rows, got %d", len(remaining))
	}
	alive := map[int64]locations.Status{}
	for _, loc := range remaining {
		alive[loc.ID] = loc.Status
	}
	if _, ok := alive[synced.ID]; ok {
		t.Fatal("expected synced row evicted in pass 1")
	}
	if _, ok := alive[pending.ID]; ok {
		t.Fatal("expected oldest pending row evicted in pass 2")
	}
	if status, ok := alive[syncing.ID]; !ok || status != locations.StatusSyncing {
		t.Fatal("expected syncing row protected from eviction")
	}
	if status, ok := alive[inserted.ID]; !ok || status != locations.StatusPending {
		t.Fatal("expected newly inserted row to survive")
	}
}

// A pending row strictly newer than a synced row is never removed while the
// synced row still exists.
func TestEvictionPrefersSafeRowsOverNewerPending(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenLocations(t, cfg)
	ctx := context.Background()

	// Oldest row is synced; everything after it pending.
	synced, err := store.Enqueue(ctx, fixAt(baseTime()), noCeiling)
	if err != nil {
		t.Fatalf("Enqueue failed: %v", err)
	}
	if _, err := store.MarkSyncing(ctx, synced.ID); err != nil {
		t.Fatalf("MarkSyncing failed: %v", err)
	}
	if _, err := store.MarkSynced(ctx, synced.ID); err != nil {
		t.Fatalf("MarkSynced failed: %v", err)
	}

	var pendingIDs []int64
	for i := 1; i <= 3; i++ {
		loc, err := store.Enqueue(ctx, fixAt(baseTime().Add(time.Duration(i)*time.Minute)), noCeiling)
		if err != nil {
			t.Fatalf("Enqueue failed: %v", err)
		}
		pendingIDs = append(pendingIDs, loc.ID)
	}

	// count=5 > ceiling=4 -> toDelete=2: the synced row goes in pass 1 and
	// only the oldest pending row falls to pass 2.
	trigger, err := store.Enqueue(ctx, fixAt(baseTime().Add(10*time.Minute)), 4)
	if err != nil {
		t.Fatalf("Enqueue trigger failed: %v", err)
	}

	remaining, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	alive := map[int64]struct{}{}
	for _, loc := range remaining {
		alive[loc.ID] = struct{}{}
	}
	if _, ok := alive[synced.ID]; ok {
		t.Fatal("expected the synced row to be evicted first")
	}
	// Only the oldest pending row may fall in pass 2; newer ones survive.
	if _, ok := alive[pendingIDs[0]]; ok {
		t.Fatal("expected oldest pending row evicted in pass 2")
	}
	for _, id := range pendingIDs[1:] {
		if _, ok := alive[id]; !ok {
			t.Fatalf("expected newer pending row %d to survive", id)
		}
	}
	if _, ok := alive[trigger.ID]; !ok {
		t.Fatal("expected trigger row to survive")
	}
}

// When every removable row is syncing, the count may exceed the ceiling.
// That is the documented exception, not a bug.
func TestCeilingExceededWhenOnlySyncingRowsRemain(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenLocations(t, cfg)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		loc, err := store.Enqueue(ctx, fixAt(baseTime().Add(time.Duration(i)*time.Minute)), noCeiling)
		if err != nil {
			t.Fatalf("Enqueue failed: %v", err)
		}
		if _, err := store.MarkSyncing(ctx, loc.ID); err != nil {
			t.Fatalf("MarkSyncing failed: %v", err)
		}
	}

	// Ceiling 2 with three protected rows: the insert pushes the count to 4
	// and eviction can only remove the new pending row itself... pass 2 takes
	// the oldest pending, which is the row just inserted.
	inserted, err := store.Enqueue(ctx, fixAt(baseTime().Add(time.Hour)), 2)
	if err != nil {
		t.Fatalf("Enqueue failed: %v", err)
	}
	if inserted == nil || inserted.IdempotencyKey == "" {
		t.Fatal("expected insert-time row data even when immediately evicted")
	}

	count, err := store.Count(ctx)
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if count != 3 {
		t.Fatalf("expected 3 surviving syncing rows, got %d", count)
	}

	stats, err := store.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats[locations.StatusSyncing] != 3 {
		t.Fatalf("expected all survivors syncing, got %v", stats)
	}
}

// Enqueue reports the inserted row even when eviction reclaims it before the
// read-back; callers never see a nil row on success.
func TestEnqueueReturnsRowWhenImmediatelyEvicted(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenLocations(t, cfg)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		loc, err := store.Enqueue(ctx, fixAt(baseTime().Add(time.Duration(i)*time.Minute)), noCeiling)
		if err != nil {
			t.Fatalf("Enqueue failed: %v", err)
		}
		if _, err := store.MarkSyncing(ctx, loc.ID); err != nil {
			t.Fatalf("MarkSyncing failed: %v", err)
		}
	}

	fix := fixAt(baseTime().Add(time.Hour))
	fix.Notes = "evicted on arrival"
	loc, err := store.Enqueue(ctx, fix, 1)
	if err != nil {
		t.Fatalf("Enqueue failed: %v", err)
	}
	if loc == nil {
		t.Fatal("expected non-nil row from successful Enqueue")
	}
	if loc.ID == 0 || loc.IdempotencyKey == "" {
		t.Fatalf("expected assigned id and key, got %#v", loc)
	}
	if loc.Status != locations.StatusPending || loc.Notes != "evicted on arrival" {
		t.Fatalf("expected insert-time snapshot, got %#v", loc)
	}
	if !loc.RecordedAt.Equal(fix.RecordedAt) {
		t.Fatalf("expected recorded_at %v, got %v", fix.RecordedAt, loc.RecordedAt)
	}

	// The row itself was reclaimed by pass 2.
	fetched, err := store.GetByID(ctx, loc.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if fetched != nil {
		t.Fatalf("expected row %d evicted, got %#v", loc.ID, fetched)
	}
}

// Rejected rows are safe for pass 1 regardless of sync status.
func TestEvictionTreatsRejectedAsSafe(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenLocations(t, cfg)
	ctx := context.Background()

	rejected, err := store.Enqueue(ctx, fixAt(baseTime()), noCeiling)
	if err != nil {
		t.Fatalf("Enqueue failed: %v", err)
	}
	if err := store.MarkRejected(ctx, rejected.ID); err != nil {
		t.Fatalf("MarkRejected failed: %v", err)
	}

	pending, err := store.Enqueue(ctx, fixAt(baseTime().Add(time.Minute)), noCeiling)
	if err != nil {
		t.Fatalf("Enqueue failed: %v", err)
	}

	if _, err := store.Enqueue(ctx, fixAt(baseTime().Add(2*time.Minute)), 2); err != nil {
		t.Fatalf("Enqueue trigger failed: %v", err)
	}

	remaining, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	for _, loc := range remaining {
		if loc.ID == rejected.ID {
			t.Fatal("expected rejected row evicted in pass 1")
		}
	}
	found := false
	for _, loc := range remaining {
		if loc.ID == pending.ID {
			found = true
		}
	}
	if !found {
		t.Fatal("expected pending row to survive while a rejected row existed")
	}
}
