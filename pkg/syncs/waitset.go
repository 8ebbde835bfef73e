package syncs

import "sync"

// Chan is a wait-channel identity, used as a map key. Callers normally use a
// pointer to the object whose state they wait on. A value that is not
// comparable, such as a slice or a map, makes every [WaitSet] method panic.
type Chan any

// Locker is the lock released and reacquired around a suspension.
type Locker interface {
	Lock()
	Unlock()
}

// WaitSet tracks suspended callers keyed by wait channel. Create instances
// with [NewWaitSet], or use the zero value directly.
type WaitSet struct {
	waiters map[Chan][]chan struct{}
	mu      sync.Mutex
}

// NewWaitSet creates a new [WaitSet].
func NewWaitSet() *WaitSet {
	return &WaitSet{
		waiters: make(map[Chan][]chan struct{}),
	}
}

// Sleep releases lk and suspends the caller on ch until [WaitSet.Wakeup] is
// called for ch, then reacquires lk before returning. lk must be held.
//
// The caller is registered on ch before lk is released, so a signaller that
// holds lk while changing the condition cannot wake ch in between.
func (ws *WaitSet) Sleep(ch Chan, lk Locker) {
	wake := make(chan struct{})

	ws.mu.Lock()
	if ws.waiters == nil {
		ws.waiters = make(map[Chan][]chan struct{})
	}

	ws.waiters[ch] = append(ws.waiters[ch], wake)
	ws.mu.Unlock()

	lk.Unlock()
	<-wake
	lk.Lock()
}

// Wakeup resumes every caller suspended on ch.
func (ws *WaitSet) Wakeup(ch Chan) {
	ws.mu.Lock()
	defer ws.mu.Unlock()

	for _, wake := range ws.waiters[ch] {
		close(wake)
	}

	delete(ws.waiters, ch)
}

// Waiters returns the number of callers currently suspended on ch.
func (ws *WaitSet) Waiters(ch Chan) int {
	ws.mu.Lock()
	defer ws.mu.Unlock()

	return len(ws.waiters[ch])
}
