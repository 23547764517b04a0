package clock

import (
	"sync"
	"time"
)

// Clock is the only source of time for the sequencing code. Every wait in a
// sequence goes through Sleep so that tests can run a five second blink burst
// without waiting five seconds.
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

type Real struct{}

func (Real) Now() time.Time {
	return time.Now()
}

func (Real) Sleep(d time.Duration) {
	time.Sleep(d)
}

// Fake is a virtual clock. Sleep returns immediately after advancing Now.
type Fake struct {
	lock  sync.Mutex
	now   time.Time
	slept time.Duration
}

func NewFake(start time.Time) *Fake {
	return &Fake{now: start}
}

func (f *Fake) Now() time.Time {
	f.lock.Lock()
	defer f.lock.Unlock()
	return f.now
}

func (f *Fake) Sleep(d time.Duration) {
	if d <= 0 {
		return
	}
	f.lock.Lock()
	defer f.lock.Unlock()
	f.now = f.now.Add(d)
	f.slept += d
}

// Advance moves time forward without counting it as slept.
func (f *Fake) Advance(d time.Duration) {
	f.lock.Lock()
	defer f.lock.Unlock()
	f.now = f.now.Add(d)
}

// Slept returns the total duration passed to Sleep.
func (f *Fake) Slept() time.Duration {
	f.lock.Lock()
	defer f.lock.Unlock()
	return f.slept
}
