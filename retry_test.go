package serv_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	serv "github.com/Salfa-04/serv-stre"
)

func TestExponentialRetry(t *testing.T) {
	t.Parallel()
	tests := []struct {
		retry    uint64
		expected time.Duration
	}{
		{retry: 0, expected: time.Millisecond},
		{retry: 1, expected: 2 * time.Millisecond},
		{retry: 2, expected: 4 * time.Millisecond},
		{retry: 3, expected: 8 * time.Millisecond},
		{retry: 4, expected: 16 * time.Millisecond},
		{retry: 5, expected: 20 * time.Millisecond},
		{retry: 6, expected: 20 * time.Millisecond},
		// the accept loop retries forever; huge counts must stay capped
		{retry: 32, expected: 20 * time.Millisecond},
		{retry: 1 << 60, expected: 20 * time.Millisecond},
	}
	var retry serv.Retry = serv.ExponentialRetry{
		InitialDelay: time.Millisecond,
		MaxDelay:     20 * time.Millisecond,
	}
	for _, test := range tests {
		assert.Equal(t, test.expected, retry.Backoff(test.retry), "retry %d", test.retry)
	}
}

func TestDefaultRetry(t *testing.T) {
	t.Parallel()
	assert.Equal(t, 5*time.Millisecond, serv.DefaultRetry.Backoff(0))
	assert.Equal(t, time.Second, serv.DefaultRetry.Backoff(20))
}
