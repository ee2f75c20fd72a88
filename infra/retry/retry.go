package retry

import (
	"context"
	"log/slog"
	"math"
	"time"

	"github.com/giovaniif/item-store/infra"
	"github.com/giovaniif/item-store/protocols"
)

const (
	DefaultMaxRetries = 5
	DefaultBaseDelay  = 1 * time.Second
)

type Func func(ctx context.Context) error

type Policy struct {
	MaxRetries int
	BaseDelay  time.Duration
}

func DefaultPolicy() Policy {
	return Policy{MaxRetries: DefaultMaxRetries, BaseDelay: DefaultBaseDelay}
}

// WithBackoff retries operation while it fails with a retriable error,
// sleeping BaseDelay * 2^attempt between tries.
func WithBackoff(operation Func, sleeper protocols.Sleeper, policy Policy) Func {
	return func(ctx context.Context) error {
		var lastError error

		for i := 0; i < policy.MaxRetries; i++ {
			if ctx.Err() != nil {
				return ctx.Err()
			}

			err := operation(ctx)
			if err == nil {
				return nil
			}
			if !infra.IsRetriable(err) {
				return err
			}
			lastError = err

			if i == policy.MaxRetries-1 {
				break
			}
			delay := time.Duration(math.Pow(2, float64(i))) * policy.BaseDelay
			slog.WarnContext(ctx, "retrying operation", "attempt", i+1, "delay", delay, "err", err)
			sleeper.Sleep(delay)
		}

		return lastError
	}
}
