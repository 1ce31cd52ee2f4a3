package cache

import (
	"context"
	"errors"
	"net"
	"time"
)

// ErrNetwork marks failures to reach a remote cache backend.
var ErrNetwork = errors.New("cache backend unreachable")

// Redis calls are retried this many times in total, doubling the pause
// after each failure.
const attempts = 3

var firstBackoff = 100 * time.Millisecond

// transient reports whether err is worth another attempt: a network failure
// is, a protocol error or a cancelled context is not.
func transient(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var netErr net.Error
	return errors.Is(err, ErrNetwork) || errors.As(err, &netErr)
}

// retry runs op until it succeeds, fails permanently or runs out of
// attempts. Network failures come back wrapped in ErrNetwork.
func retry(ctx context.Context, op func() error) error {
	pause := firstBackoff
	var err error
	for i := 0; i < attempts; i++ {
		if err = op(); !transient(err) {
			return err
		}
		if i == attempts-1 {
			break
		}
		t := time.NewTimer(pause)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
		pause *= 2
	}
	if errors.Is(err, ErrNetwork) {
		return err
	}
	return errors.Join(ErrNetwork, err)
}
