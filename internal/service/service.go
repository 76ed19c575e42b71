// Package service implements the shop operations on top of the shopper
// sessions, the catalog and the auxiliary tools.
package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/utafrali/ShopHub/internal/session"
)

// Sessions resolves shopper sessions.
type Sessions interface {
	Get(shopperID string) *session.Session
}

// awaitReady waits up to limit for the session's hydration so operations
// start from the persisted state. It never fails: after the limit the
// operation runs on the in-memory state and the store replays it once the
// load completes.
func awaitReady(ctx context.Context, sess *session.Session, limit time.Duration, logger *slog.Logger) {
	if limit <= 0 {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, limit)
	defer cancel()

	if err := sess.Wait(ctx); err != nil {
		logger.WarnContext(ctx, "session not hydrated in time, using in-memory state",
			slog.String("shopper_id", sess.ShopperID),
			slog.Duration("waited", limit),
		)
	}
}
