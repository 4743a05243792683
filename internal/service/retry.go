package service

import (
	"context"
	"errors"
	"time"

	"github.com/lshigami/Margays/internal/apperr"
)

// RetryPolicy is an explicit backoff policy for transient backend failures:
// retries only NETWORK_ERROR-coded failures, with a multiplied interval
// bounded by MaxInterval and a total budget of MaxElapsed.
type RetryPolicy struct {
	InitialInterval time.Duration
	MaxInterval     time.Duration
	Multiplier      float64
	MaxElapsed      time.Duration
}

// DefaultRetryPolicy suits short foreground calls such as session creation.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		InitialInterval: 500 * time.Millisecond,
		MaxInterval:     5 * time.Second,
		Multiplier:      2.0,
		MaxElapsed:      15 * time.Second,
	}
}

// Execute runs op, retrying transient network errors until the policy budget
// or ctx expires. Structural errors (validation, unauthorized, fatal) are
// returned immediately.
func (p RetryPolicy) Execute(ctx context.Context, op func(context.Context) error) error {
	interval := p.InitialInterval
	deadline := time.Now().Add(p.MaxElapsed)

	for {
		err := op(ctx)
		if err == nil {
			return nil
		}
		var ae *apperr.Error
		if !errors.As(err, &ae) || ae.Code != apperr.CodeNetwork {
			return err
		}
		if time.Now().Add(interval).After(deadline) {
			return err
		}

		select {
		case <-ctx.Done():
			return apperr.Network("retry canceled", ctx.Err())
		case <-time.After(interval):
		}

		interval = time.Duration(float64(interval) * p.Multiplier)
		if interval > p.MaxInterval {
			interval = p.MaxInterval
		}
	}
}
