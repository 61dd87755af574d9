// Package leaktest checks that code under test leaves no goroutines behind.
package leaktest

import (
	"runtime"
	"testing"
	"time"
)

// DefaultTimeout bounds how long Verify waits for goroutines to exit
const DefaultTimeout = 2 * time.Second

// Checker records the goroutine count at creation
type Checker struct {
	t      testing.TB
	before int
}

// Start records the current goroutine count
func Start(t testing.TB) *Checker {
	t.Helper()
	runtime.Gosched()
	return &Checker{t: t, before: runtime.NumGoroutine()}
}

// Verify polls until at most tolerance goroutines above the baseline remain,
// failing the test after timeout
func (c *Checker) Verify(tolerance int, timeout time.Duration) {
	c.t.Helper()

	deadline := time.Now().Add(timeout)
	for {
		runtime.Gosched()
		leaked := runtime.NumGoroutine() - c.before
		if leaked <= tolerance {
			return
		}
		if time.Now().After(deadline) {
			c.t.Errorf("goroutine leak: before=%d, after=%d, leaked=%d (tolerance=%d)",
				c.before, runtime.NumGoroutine(), leaked, tolerance)
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
}

// CheckNoGoroutineLeak runs fn and fails if it left goroutines running
func CheckNoGoroutineLeak(t testing.TB, fn func()) {
	t.Helper()
	c := Start(t)
	fn()
	c.Verify(0, DefaultTimeout)
}
