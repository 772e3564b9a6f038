// Package gateway holds the payment settlement adapters. The simulated
// gateway stands in for a real PSP round-trip: it is rate limited, honors
// context cancellation during the settlement delay, and mints transaction
// ids in the PSP's format.
package gateway

import (
	"context"
	crand "crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"pvt_hostel/internal/adapters/observability"
	"pvt_hostel/internal/domain"
)

type Simulated struct {
	latency time.Duration
	rl      *rate.Limiter
}

// NewSimulated builds a gateway that settles every charge after the given
// artificial latency. rps bounds client-side request rate, matching how a
// real PSP integration would be throttled.
func NewSimulated(latency time.Duration, rps int) *Simulated {
	if rps <= 0 {
		rps = 5
	}
	return &Simulated{
		latency: latency,
		rl:      rate.NewLimiter(rate.Limit(rps), rps),
	}
}

func (g *Simulated) Settle(ctx context.Context, req domain.SettlementRequest) (domain.SettlementResult, error) {
	if err := g.rl.Wait(ctx); err != nil {
		return domain.SettlementResult{}, err
	}

	start := time.Now()
	if !sleepCtx(ctx, g.latency) {
		observability.ObserveExternal("gateway", "settle", 499, time.Since(start))
		return domain.SettlementResult{}, ctx.Err()
	}
	observability.ObserveExternal("gateway", "settle", 200, time.Since(start))

	return domain.SettlementResult{
		TransactionID: newTransactionID(),
		SettledAt:     time.Now().UTC(),
	}, nil
}

// sleepCtx waits for d or returns early if ctx is done.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

func newTransactionID() string {
	buf := make([]byte, 5)
	if _, err := crand.Read(buf); err != nil {
		return fmt.Sprintf("TXN%d", time.Now().UnixNano())
	}
	return fmt.Sprintf("TXN%d%s", time.Now().UnixMilli(), hex.EncodeToString(buf))
}
