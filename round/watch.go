// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package round

import (
	"context"
	"time"
)

// Watch calls MaybeExpireRound every interval until ctx is done, so an
// expired round settles even when nobody registers or votes.
func (e *Engine) Watch(ctx context.Context, interval time.Duration) {
	ticker := e.clock.Ticker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			settled, err := e.MaybeExpireRound(ctx)
			if err != nil {
				e.logger.Error("failed to expire round", "error", err)
				continue
			}
			if settled {
				e.logger.Info("expired round settled by watcher")
			}
		}
	}
}
