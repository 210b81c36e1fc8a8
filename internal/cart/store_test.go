package cart

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"testing"

	"github.com/bellavista/ordering-service/internal/catalog"
)

// fakeRepository keeps payloads in memory and round-trips them through JSON,
// the same way the real repository does.
type fakeRepository struct {
	payloads map[string][]byte
	loadErr  error
	saveErr  error
	saves    int
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{payloads: make(map[string][]byte)}
}

func (f *fakeRepository) Load(ctx context.Context, sessionID string) ([]Line, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	payload, ok := f.payloads[sessionID]
	if !ok {
		return nil, nil
	}
	var lines []Line
	if err := json.Unmarshal(payload, &lines); err != nil {
		return nil, err
	}
	return lines, nil
}

func (f *fakeRepository) Save(ctx context.Context, sessionID string, lines []Line) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	payload, err := json.Marshal(lines)
	if err != nil {
		return err
	}
	f.payloads[sessionID] = payload
	f.saves++
	return nil
}

func (f *fakeRepository) Clear(ctx context.Context, sessionID string) error {
	delete(f.payloads, sessionID)
	return nil
}

func newTestStore(repo Repository) *Store {
	pricing := Pricing{GSTPercentage: 5, DeliveryFee: 50}
	return NewStore(repo, pricing, log.New(io.Discard, "", 0))
}

func pizza() catalog.Item {
	return catalog.Item{ID: "pz1", Name: "Margherita", Price: 300, Veg: true, Images: []string{"margherita.webp"}}
}

func TestAddItemMergesExistingLine(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepository()
	store := newTestStore(repo)

	if err := store.AddItem(ctx, "s1", pizza(), 1); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := store.AddItem(ctx, "s1", pizza(), 2); err != nil {
		t.Fatalf("add again: %v", err)
	}

	lines := store.Lines(ctx, "s1")
	if len(lines) != 1 {
		t.Fatalf("expected a single merged line, got %d", len(lines))
	}
	if lines[0].Quantity != 3 {
		t.Fatalf("expected quantity 3, got %d", lines[0].Quantity)
	}
	if lines[0].LineTotal() != 900 {
		t.Fatalf("expected line total 900, got %d", lines[0].LineTotal())
	}
	if lines[0].Image != "margherita.webp" {
		t.Fatalf("expected thumbnail copied at add time, got %q", lines[0].Image)
	}
}

func TestAddItemDefaultsQuantityToOne(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(newFakeRepository())

	if err := store.AddItem(ctx, "s1", pizza(), 0); err != nil {
		t.Fatalf("add: %v", err)
	}
	if got := store.ItemCount(ctx, "s1"); got != 1 {
		t.Fatalf("expected item count 1, got %d", got)
	}
}

func TestAddItemPreservesInsertionOrder(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(newFakeRepository())

	items := []catalog.Item{
		{ID: "a", Name: "A", Price: 100},
		{ID: "b", Name: "B", Price: 200},
		{ID: "c", Name: "C", Price: 300},
	}
	for _, it := range items {
		if err := store.AddItem(ctx, "s1", it, 1); err != nil {
			t.Fatalf("add %s: %v", it.ID, err)
		}
	}
	// bump the first line, order must not change
	if err := store.AddItem(ctx, "s1", items[0], 1); err != nil {
		t.Fatalf("re-add: %v", err)
	}

	lines := store.Lines(ctx, "s1")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	for i, want := range []string{"a", "b", "c"} {
		if lines[i].ItemID != want {
			t.Fatalf("expected line %d to be %q, got %q", i, want, lines[i].ItemID)
		}
	}
}

func TestUpdateQuantityZeroRemovesLine(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(newFakeRepository())

	if err := store.AddItem(ctx, "s1", pizza(), 2); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := store.UpdateQuantity(ctx, "s1", "pz1", 0); err != nil {
		t.Fatalf("update: %v", err)
	}

	if got := len(store.Lines(ctx, "s1")); got != 0 {
		t.Fatalf("expected empty cart, got %d lines", got)
	}

	// negative quantity behaves the same as remove
	if err := store.AddItem(ctx, "s1", pizza(), 2); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := store.UpdateQuantity(ctx, "s1", "pz1", -3); err != nil {
		t.Fatalf("update: %v", err)
	}
	if got := len(store.Lines(ctx, "s1")); got != 0 {
		t.Fatalf("expected empty cart after negative update, got %d lines", got)
	}
}

func TestUpdateQuantityUnknownLineIsNoop(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepository()
	store := newTestStore(repo)

	if err := store.AddItem(ctx, "s1", pizza(), 1); err != nil {
		t.Fatalf("add: %v", err)
	}
	savesBefore := repo.saves

	if err := store.UpdateQuantity(ctx, "s1", "missing", 5); err != nil {
		t.Fatalf("update: %v", err)
	}
	if repo.saves != savesBefore {
		t.Fatalf("no-op update must not persist")
	}
	if got := store.ItemCount(ctx, "s1"); got != 1 {
		t.Fatalf("expected item count 1, got %d", got)
	}
}

func TestItemCountEqualsSumOfQuantities(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(newFakeRepository())

	ops := []func() error{
		func() error { return store.AddItem(ctx, "s1", catalog.Item{ID: "a", Price: 100}, 2) },
		func() error { return store.AddItem(ctx, "s1", catalog.Item{ID: "b", Price: 200}, 3) },
		func() error { return store.UpdateQuantity(ctx, "s1", "a", 5) },
		func() error { return store.AddItem(ctx, "s1", catalog.Item{ID: "c", Price: 50}, 1) },
		func() error { return store.RemoveItem(ctx, "s1", "b") },
	}
	for i, op := range ops {
		if err := op(); err != nil {
			t.Fatalf("op %d: %v", i, err)
		}
	}

	want := 0
	for _, l := range store.Lines(ctx, "s1") {
		want += l.Quantity
	}
	if got := store.ItemCount(ctx, "s1"); got != want {
		t.Fatalf("item count %d does not match summed quantities %d", got, want)
	}
	if got := store.ItemCount(ctx, "s1"); got != 6 {
		t.Fatalf("expected item count 6, got %d", got)
	}
}

func TestTotals(t *testing.T) {
	ctx := context.Background()

	t.Run("empty cart is all zeroes", func(t *testing.T) {
		store := newTestStore(newFakeRepository())
		if got := store.Totals(ctx, "s1"); got != (Totals{}) {
			t.Fatalf("expected zero totals, got %+v", got)
		}
	})

	t.Run("subtotal 1000 with 5 percent gst and fee 50", func(t *testing.T) {
		store := newTestStore(newFakeRepository())
		if err := store.AddItem(ctx, "s1", catalog.Item{ID: "a", Price: 250}, 4); err != nil {
			t.Fatalf("add: %v", err)
		}

		got := store.Totals(ctx, "s1")
		want := Totals{Subtotal: 1000, GST: 50, DeliveryFee: 50, Total: 1100}
		if got != want {
			t.Fatalf("expected %+v, got %+v", want, got)
		}
	})

	t.Run("pure across repeated reads", func(t *testing.T) {
		store := newTestStore(newFakeRepository())
		if err := store.AddItem(ctx, "s1", pizza(), 3); err != nil {
			t.Fatalf("add: %v", err)
		}
		first := store.Totals(ctx, "s1")
		second := store.Totals(ctx, "s1")
		if first != second {
			t.Fatalf("totals changed between reads: %+v vs %+v", first, second)
		}
		if first.Total != first.Subtotal+first.GST+first.DeliveryFee {
			t.Fatalf("total invariant violated: %+v", first)
		}
	})

	t.Run("gst rounds half up", func(t *testing.T) {
		// 250 * 5% = 12.5 -> 13
		got := ComputeTotals([]Line{{ItemID: "a", UnitPrice: 250, Quantity: 1}}, Pricing{GSTPercentage: 5, DeliveryFee: 50})
		if got.GST != 13 {
			t.Fatalf("expected gst 13, got %d", got.GST)
		}
		if got.Total != 250+13+50 {
			t.Fatalf("unexpected total %d", got.Total)
		}
	})
}

func TestLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepository()
	store := newTestStore(repo)

	if err := store.AddItem(ctx, "s1", pizza(), 2); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := store.AddItem(ctx, "s1", catalog.Item{ID: "ts1", Name: "Tiramisu", Price: 250, Veg: true}, 1); err != nil {
		t.Fatalf("add: %v", err)
	}

	// a second store over the same repository sees the identical lines
	reloaded := newTestStore(repo).Lines(ctx, "s1")
	original := store.Lines(ctx, "s1")
	if len(reloaded) != len(original) {
		t.Fatalf("expected %d lines after reload, got %d", len(original), len(reloaded))
	}
	for i := range original {
		if reloaded[i] != original[i] {
			t.Fatalf("line %d mismatch: %+v vs %+v", i, original[i], reloaded[i])
		}
	}
}

func TestLoadFailureFallsBackToEmptyCart(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepository()
	repo.loadErr = errors.New("corrupt payload")
	store := newTestStore(repo)

	if got := len(store.Lines(ctx, "s1")); got != 0 {
		t.Fatalf("expected empty cart on load failure, got %d lines", got)
	}
	if got := store.Totals(ctx, "s1"); got != (Totals{}) {
		t.Fatalf("expected zero totals on load failure, got %+v", got)
	}
}

func TestSaveFailureSurfacesError(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepository()
	repo.saveErr = errors.New("disk full")
	store := newTestStore(repo)

	if err := store.AddItem(ctx, "s1", pizza(), 1); err == nil {
		t.Fatalf("expected save error to surface")
	}
}

func TestSubscribersNotifiedAfterSave(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepository()
	store := newTestStore(repo)

	var notified []Snapshot
	store.Subscribe(func(sessionID string, snap Snapshot) {
		if sessionID != "s1" {
			t.Fatalf("unexpected session %q", sessionID)
		}
		notified = append(notified, snap)
	})

	if err := store.AddItem(ctx, "s1", pizza(), 2); err != nil {
		t.Fatalf("add: %v", err)
	}
	if len(notified) != 1 {
		t.Fatalf("expected one notification, got %d", len(notified))
	}
	if notified[0].ItemCount != 2 {
		t.Fatalf("expected snapshot item count 2, got %d", notified[0].ItemCount)
	}

	if err := store.Clear(ctx, "s1"); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if len(notified) != 2 {
		t.Fatalf("expected notification on clear, got %d", len(notified))
	}
	if !notified[1].Empty() {
		t.Fatalf("expected empty snapshot after clear")
	}

	// failed saves must not notify
	repo.saveErr = errors.New("save failed")
	_ = store.AddItem(ctx, "s1", pizza(), 1)
	if len(notified) != 2 {
		t.Fatalf("subscriber ran on failed save")
	}
}

func TestSnapshotIsImmutableCopy(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(newFakeRepository())

	if err := store.AddItem(ctx, "s1", pizza(), 1); err != nil {
		t.Fatalf("add: %v", err)
	}
	snap := store.Snapshot(ctx, "s1")

	if err := store.AddItem(ctx, "s1", pizza(), 4); err != nil {
		t.Fatalf("add: %v", err)
	}

	if snap.ItemCount != 1 || snap.Lines[0].Quantity != 1 {
		t.Fatalf("snapshot reflected later mutation: %+v", snap)
	}
	if live := store.Snapshot(ctx, "s1"); live.ItemCount != 5 {
		t.Fatalf("expected live count 5, got %d", live.ItemCount)
	}
}
