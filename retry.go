package serv

import (
	"time"
)

type (
	// Retry decides how long to back off after the n-th consecutive
	// accept failure.
	Retry interface {
		Backoff(uint64) time.Duration
	}

	// ExponentialRetry doubles the delay on every consecutive failure up
	// to MaxDelay, without jitter.
	ExponentialRetry struct {
		InitialDelay time.Duration
		MaxDelay     time.Duration
	}
)

// DefaultRetry matches the accept backoff of net/http.Server.
var DefaultRetry Retry = ExponentialRetry{
	InitialDelay: 5 * time.Millisecond,
	MaxDelay:     1 * time.Second,
}

func (er ExponentialRetry) Backoff(retry uint64) time.Duration {
	// The accept loop never stops retrying, so retry can grow without
	// bound; avoid overflowing the shift.
	if retry >= 32 {
		return er.MaxDelay
	}
	d := er.InitialDelay * (1 << retry)
	if d > er.MaxDelay {
		d = er.MaxDelay
	}
	return d
}
