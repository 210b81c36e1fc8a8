package cart

import (
	"context"
	"log"
	"sync"

	"github.com/bellavista/ordering-service/internal/catalog"
)

// Subscriber is notified after every successful cart mutation with the
// session's fresh snapshot. The store itself never renders anything.
type Subscriber func(sessionID string, snap Snapshot)

// Store owns cart mutations and derived totals. It is stateless between
// calls: every operation loads the session's lines, mutates them, and
// durably saves before returning. A load that finds absent or corrupt state
// resets to an empty cart instead of failing the caller.
type Store struct {
	repo    Repository
	pricing Pricing
	logger  *log.Logger

	mu   sync.Mutex
	subs []Subscriber
}

func NewStore(repo Repository, pricing Pricing, logger *log.Logger) *Store {
	return &Store{repo: repo, pricing: pricing, logger: logger}
}

// Subscribe registers a change listener. Subscribers run synchronously on the
// mutating call, after the save succeeded.
func (s *Store) Subscribe(fn Subscriber) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, fn)
}

// AddItem merges the catalog item into the cart: an existing line gets its
// quantity incremented, otherwise a new line is appended preserving insertion
// order. Quantities below one default to one.
func (s *Store) AddItem(ctx context.Context, sessionID string, item catalog.Item, quantity int) error {
	if quantity < 1 {
		quantity = 1
	}

	lines := s.load(ctx, sessionID)

	merged := false
	for i := range lines {
		if lines[i].ItemID == item.ID {
			lines[i].Quantity += quantity
			merged = true
			break
		}
	}
	if !merged {
		lines = append(lines, Line{
			ItemID:    item.ID,
			Name:      item.Name,
			UnitPrice: item.Price,
			Image:     item.Thumbnail(),
			Veg:       item.Veg,
			Quantity:  quantity,
		})
	}

	return s.save(ctx, sessionID, lines)
}

// RemoveItem deletes the line with the given id; removing an absent line is a
// no-op that still persists the (unchanged) cart.
func (s *Store) RemoveItem(ctx context.Context, sessionID, itemID string) error {
	lines := s.load(ctx, sessionID)

	kept := lines[:0]
	for _, l := range lines {
		if l.ItemID != itemID {
			kept = append(kept, l)
		}
	}

	return s.save(ctx, sessionID, kept)
}

// UpdateQuantity sets the line's quantity. A quantity of zero or less removes
// the line; an unknown id is a no-op.
func (s *Store) UpdateQuantity(ctx context.Context, sessionID, itemID string, quantity int) error {
	if quantity <= 0 {
		return s.RemoveItem(ctx, sessionID, itemID)
	}

	lines := s.load(ctx, sessionID)
	for i := range lines {
		if lines[i].ItemID == itemID {
			lines[i].Quantity = quantity
			return s.save(ctx, sessionID, lines)
		}
	}
	return nil
}

func (s *Store) Clear(ctx context.Context, sessionID string) error {
	if err := s.repo.Clear(ctx, sessionID); err != nil {
		return err
	}
	s.notify(sessionID, Snapshot{Lines: []Line{}, Totals: ComputeTotals(nil, s.pricing)})
	return nil
}

func (s *Store) Lines(ctx context.Context, sessionID string) []Line {
	return s.load(ctx, sessionID)
}

// Totals is a pure function of the current lines, recomputed on every call.
func (s *Store) Totals(ctx context.Context, sessionID string) Totals {
	return ComputeTotals(s.load(ctx, sessionID), s.pricing)
}

func (s *Store) ItemCount(ctx context.Context, sessionID string) int {
	return CountItems(s.load(ctx, sessionID))
}

// Snapshot returns the immutable checkout handoff copy of the cart.
func (s *Store) Snapshot(ctx context.Context, sessionID string) Snapshot {
	lines := s.load(ctx, sessionID)
	return Snapshot{
		Lines:     lines,
		Totals:    ComputeTotals(lines, s.pricing),
		ItemCount: CountItems(lines),
	}
}

// load tolerates absent or corrupt stored state by resetting to an empty
// cart. Storage read failures are logged, never surfaced.
func (s *Store) load(ctx context.Context, sessionID string) []Line {
	lines, err := s.repo.Load(ctx, sessionID)
	if err != nil {
		s.logger.Printf("load cart for session %s: %v (resetting to empty)", sessionID, err)
		return nil
	}
	return lines
}

func (s *Store) save(ctx context.Context, sessionID string, lines []Line) error {
	if err := s.repo.Save(ctx, sessionID, lines); err != nil {
		return err
	}
	s.notify(sessionID, Snapshot{
		Lines:     lines,
		Totals:    ComputeTotals(lines, s.pricing),
		ItemCount: CountItems(lines),
	})
	return nil
}

func (s *Store) notify(sessionID string, snap Snapshot) {
	s.mu.Lock()
	subs := make([]Subscriber, len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()

	for _, fn := range subs {
		fn(sessionID, snap)
	}
}
