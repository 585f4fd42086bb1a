package testutil

import (
	"context"
	"testing"
	"time"
)

// Context returns a context bounded at 30 seconds so a wedged database call
// fails the test instead of hanging it.
func Context(t *testing.T) context.Context {
	t.Helper()
	return ContextWithTimeout(t, 30*time.Second)
}

// ContextWithTimeout returns a context that is cancelled on test cleanup.
func ContextWithTimeout(t *testing.T, timeout time.Duration) context.Context {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	t.Cleanup(cancel)
	return ctx
}
