// Package monitor ties the feed together: it consumes raw frames from the
// stream, classifies them, annotates trades with tracking provenance and
// routes everything through the dispatcher.
package monitor

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"pumpstream/internal/dispatch"
	"pumpstream/internal/domain"
	"pumpstream/internal/observability"
	"pumpstream/internal/solanakey"
	"pumpstream/internal/storage"
	"pumpstream/internal/subscription"
)

// Stream is the slice of the websocket client the runner consumes.
type Stream interface {
	Frames() <-chan []byte
	OnReconnect(fn func())
}

// ErrStreamClosed is returned by Run when the frame channel is closed,
// which happens once the client's reconnect budget is exhausted.
var ErrStreamClosed = errors.New("frame stream closed")

type Runner struct {
	stream     Stream
	manager    *subscription.Manager
	dispatcher *dispatch.Dispatcher
	store      storage.TradeStore
	logger     *log.Logger
}

func NewRunner(stream Stream, manager *subscription.Manager, dispatcher *dispatch.Dispatcher, store storage.TradeStore, logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	r := &Runner{
		stream:     stream,
		manager:    manager,
		dispatcher: dispatcher,
		store:      store,
		logger:     logger,
	}
	r.dispatcher.On(domain.EventTrade, r.handleTrade)
	r.dispatcher.On(domain.EventAck, r.handleAck)
	return r
}

// Track adds a mint to the trade desired set and converges. Used for
// manually pinned tokens; discovery goes through the bridge instead.
func (r *Runner) Track(mint string) error {
	if !solanakey.Valid(mint) {
		return fmt.Errorf("%w: invalid mint %q", storage.ErrInvalidInput, mint)
	}
	if !r.manager.Add(subscription.KindTokenTrade, mint) {
		return nil
	}
	return r.manager.Reconcile(subscription.KindTokenTrade)
}

// Untrack removes a mint from the trade desired set and converges.
func (r *Runner) Untrack(mint string) error {
	if !r.manager.Remove(subscription.KindTokenTrade, mint) {
		return nil
	}
	return r.manager.Reconcile(subscription.KindTokenTrade)
}

// Run consumes frames until ctx is cancelled or the stream terminates.
// It performs the initial subscription pass and re-arms the full desired
// set after every reconnect.
func (r *Runner) Run(ctx context.Context) error {
	r.stream.OnReconnect(func() {
		observability.RecordReconnect()
		r.manager.ResetAll()
		if err := r.manager.ReconcileAll(); err != nil {
			r.logger.Printf("[monitor] resubscribe after reconnect: %v", err)
		}
	})

	r.manager.Add(subscription.KindNewToken, subscription.NewTokenTopic)
	if err := r.manager.ReconcileAll(); err != nil {
		return fmt.Errorf("initial subscribe: %w", err)
	}

	r.logger.Printf("[monitor] running, tracking %d token(s)", r.manager.DesiredCount(subscription.KindTokenTrade))

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case raw, ok := <-r.stream.Frames():
			if !ok {
				return ErrStreamClosed
			}
			r.processFrame(ctx, raw)
		}
	}
}

func (r *Runner) processFrame(ctx context.Context, raw []byte) {
	observability.RecordFrameReceived()
	started := time.Now()
	defer func() {
		observability.RecordFrameLatency(time.Since(started).Seconds())
	}()

	event, err := dispatch.Classify(raw)
	if err != nil {
		observability.RecordMalformedFrame()
		r.logger.Printf("[monitor] dropping frame: %v", err)
		return
	}

	// The tracked count is a point-in-time snapshot taken when the trade
	// is processed, not when it is later read back.
	if trade, ok := event.(*domain.TokenTrade); ok {
		trade.TrackedCountAtEvent = r.manager.DesiredCount(subscription.KindTokenTrade)
	}

	r.dispatcher.Dispatch(ctx, event)
}

func (r *Runner) handleTrade(ctx context.Context, event domain.Event) error {
	trade, ok := event.(*domain.TokenTrade)
	if !ok {
		return fmt.Errorf("unexpected event type %T", event)
	}

	// In-flight frames can still arrive after an unsubscribe. They are
	// stored anyway (real data), but marked so dashboards can tell them
	// apart from tracked-mint flow.
	if !r.manager.Contains(subscription.KindTokenTrade, trade.Mint) {
		observability.RecordUntrackedTrade()
		r.logger.Printf("[monitor] storing trade %s for untracked mint %s", trade.Signature, trade.Mint)
	}

	err := r.store.Insert(ctx, trade)
	switch {
	case errors.Is(err, storage.ErrDuplicateKey):
		observability.RecordDuplicateTrade()
		return nil
	case err != nil:
		observability.RecordStoreError()
		return fmt.Errorf("store trade %s: %w", trade.Signature, err)
	}

	observability.RecordTradeStored()
	return nil
}

func (r *Runner) handleAck(_ context.Context, event domain.Event) error {
	ack, ok := event.(*domain.ServerAck)
	if !ok {
		return fmt.Errorf("unexpected event type %T", event)
	}
	if ack.IsError {
		r.logger.Printf("[monitor] server error: %s", ack.Message)
	} else {
		r.logger.Printf("[monitor] server: %s", ack.Message)
	}
	return nil
}
