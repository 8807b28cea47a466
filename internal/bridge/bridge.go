// Package bridge links token discovery to trade tracking: every newly
// created token that passes validation is added to the trade desired set
// and the subscription manager is nudged to converge.
package bridge

import (
	"context"
	"fmt"
	"log"

	"pumpstream/internal/domain"
	"pumpstream/internal/observability"
	"pumpstream/internal/solanakey"
	"pumpstream/internal/subscription"
)

// Bridge reacts to TokenCreated events by tracking the new mint's trades.
type Bridge struct {
	manager *subscription.Manager
	logger  *log.Logger
}

func New(manager *subscription.Manager, logger *log.Logger) *Bridge {
	if logger == nil {
		logger = log.Default()
	}
	return &Bridge{
		manager: manager,
		logger:  logger,
	}
}

// HandleCreated is a dispatch.Handler for EventCreated. Invalid mints are
// dropped, already-tracked mints are a no-op.
func (b *Bridge) HandleCreated(ctx context.Context, event domain.Event) error {
	created, ok := event.(*domain.TokenCreated)
	if !ok {
		return fmt.Errorf("unexpected event type %T", event)
	}

	if !solanakey.Valid(created.Mint) {
		b.logger.Printf("[bridge] dropping creation event with invalid mint %q", created.Mint)
		return nil
	}

	if !b.manager.Add(subscription.KindTokenTrade, created.Mint) {
		return nil
	}

	observability.RecordTokenDiscovered()

	if curve := solanakey.BondingCurve(created.Mint); curve != "" {
		b.logger.Printf("[bridge] tracking %s (%s) curve=%s desired=%d",
			created.Mint, created.Symbol, curve, b.manager.DesiredCount(subscription.KindTokenTrade))
	} else {
		b.logger.Printf("[bridge] tracking %s (%s) desired=%d",
			created.Mint, created.Symbol, b.manager.DesiredCount(subscription.KindTokenTrade))
	}

	if err := b.manager.Reconcile(subscription.KindTokenTrade); err != nil {
		return fmt.Errorf("reconcile after discovery of %s: %w", created.Mint, err)
	}
	return nil
}
