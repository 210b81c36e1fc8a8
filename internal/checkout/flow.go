package checkout

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/bellavista/ordering-service/internal/cart"
)

// State of the checkout flow. Loading and AwaitingInput precede submission;
// Succeeded is terminal; Failed permits a retry.
type State string

const (
	StateLoading       State = "loading"
	StateAwaitingInput State = "awaiting_input"
	StateSubmitting    State = "submitting"
	StateSucceeded     State = "succeeded"
	StateFailed        State = "failed"
)

// ErrMissingSnapshot means checkout was entered with an absent or empty cart.
// It is unrecoverable for the checkout page; the caller redirects back to the
// menu.
var ErrMissingSnapshot = errors.New("checkout snapshot missing or empty")

// DispatchError wraps a failed handoff to the external messaging channel.
// The flow moves to Failed and the cart stays intact for a retry.
type DispatchError struct {
	Err error
}

func (e *DispatchError) Error() string {
	return fmt.Sprintf("order dispatch failed: %v", e.Err)
}

func (e *DispatchError) Unwrap() error { return e.Err }

// Dispatcher hands the formatted order message to the external channel. The
// returned URL is what the customer's browser opens; delivery itself is
// fire-and-forget and cannot be confirmed.
type Dispatcher interface {
	Dispatch(ctx context.Context, message string) (url string, err error)
}

// CartClearer clears the live persisted cart after a successful submission.
type CartClearer interface {
	Clear(ctx context.Context, sessionID string) error
}

// OrderPublisher emits the order event after dispatch. Best effort: failures
// are logged, never fail the order.
type OrderPublisher interface {
	PublishOrderPlaced(ctx context.Context, o *Order) error
}

// Order is the ephemeral record of one submission. It is never persisted and
// is destroyed with the flow once the order id has been surfaced.
type Order struct {
	ID          string
	SessionID   string
	Customer    CustomerInfo
	Snapshot    cart.Snapshot
	PlacedAt    time.Time
	Message     string
	DispatchURL string
}

// Flow drives one checkout session:
//
//	Loading -> AwaitingInput -> Submitting -> Succeeded
//	                              \-> Failed -> (retry) Submitting
type Flow struct {
	snapshots  SnapshotRepository
	cart       CartClearer
	dispatcher Dispatcher
	publisher  OrderPublisher
	msgCfg     MessageConfig
	logger     *log.Logger

	state     State
	sessionID string
	snapshot  cart.Snapshot

	now     func() time.Time
	randInt func(n int) int
	sleep   func(d time.Duration)
	delay   time.Duration
}

// FlowDeps wires the flow's collaborators.
type FlowDeps struct {
	Snapshots  SnapshotRepository
	Cart       CartClearer
	Dispatcher Dispatcher
	Publisher  OrderPublisher
	Message    MessageConfig
	Logger     *log.Logger

	// PostDispatchDelay is the cooperative yield after opening the dispatch
	// link; it is not a delivery confirmation wait.
	PostDispatchDelay time.Duration
}

func NewFlow(deps FlowDeps) *Flow {
	return &Flow{
		snapshots:  deps.Snapshots,
		cart:       deps.Cart,
		dispatcher: deps.Dispatcher,
		publisher:  deps.Publisher,
		msgCfg:     deps.Message,
		logger:     deps.Logger,
		state:      StateLoading,
		now:        time.Now,
		randInt:    rand.Intn,
		sleep:      time.Sleep,
		delay:      deps.PostDispatchDelay,
	}
}

func (f *Flow) State() State {
	return f.state
}

func (f *Flow) Snapshot() cart.Snapshot {
	return f.snapshot
}

// Load reads the checkout snapshot handed off by the cart. An absent or empty
// snapshot terminates the flow with ErrMissingSnapshot.
func (f *Flow) Load(ctx context.Context, sessionID string) error {
	if f.state != StateLoading {
		return fmt.Errorf("load in state %s", f.state)
	}

	snap, err := f.snapshots.Load(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("load checkout snapshot: %w", err)
	}
	if snap == nil || snap.Empty() {
		return ErrMissingSnapshot
	}

	f.sessionID = sessionID
	f.snapshot = *snap
	f.state = StateAwaitingInput
	return nil
}

// Submit validates the customer input and hands the order to the dispatcher.
// Validation failures keep the flow in AwaitingInput without mutating
// anything. A dispatch failure moves to Failed and permits a retry with the
// cart untouched. On success the live cart and the handoff snapshot are
// cleared and the flow ends in Succeeded.
func (f *Flow) Submit(ctx context.Context, info CustomerInfo) (*Order, error) {
	if f.state != StateAwaitingInput && f.state != StateFailed {
		return nil, fmt.Errorf("submit in state %s", f.state)
	}

	if err := info.Validate(); err != nil {
		return nil, err
	}

	f.state = StateSubmitting

	placedAt := f.now()
	o := &Order{
		ID:        newOrderID(placedAt, f.randInt),
		SessionID: f.sessionID,
		Customer:  info,
		Snapshot:  f.snapshot,
		PlacedAt:  placedAt,
	}
	o.Message = FormatMessage(o, f.msgCfg)

	url, err := f.dispatcher.Dispatch(ctx, o.Message)
	if err != nil {
		f.state = StateFailed
		return nil, &DispatchError{Err: err}
	}
	o.DispatchURL = url

	// The deep link cannot report delivery, so a successfully built handoff
	// counts as success from here on.
	if err := f.cart.Clear(ctx, f.sessionID); err != nil {
		f.logger.Printf("clear cart for session %s: %v", f.sessionID, err)
	}
	if err := f.snapshots.Clear(ctx, f.sessionID); err != nil {
		f.logger.Printf("clear snapshot for session %s: %v", f.sessionID, err)
	}
	if f.publisher != nil {
		if err := f.publisher.PublishOrderPlaced(ctx, o); err != nil {
			f.logger.Printf("publish order %s: %v", o.ID, err)
		}
	}

	if f.delay > 0 {
		f.sleep(f.delay)
	}

	f.state = StateSucceeded
	return o, nil
}
