package telegram

import "sync"

// Gate enforces at most one in-flight send per phone number. Acquisition is
// non-blocking: overlapping callers get an immediate busy answer instead of
// queuing. One flag per distinct phone, created on first use and retained for
// process lifetime; the set of real-world phone numbers bounds the map.
type Gate struct {
	mu       sync.Mutex
	inFlight map[string]bool
}

func NewGate() *Gate {
	return &Gate{inFlight: make(map[string]bool)}
}

// TryAcquire reports whether the caller now owns the send slot for phone.
func (g *Gate) TryAcquire(phone string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.inFlight[phone] {
		return false
	}
	g.inFlight[phone] = true
	return true
}

// Release frees the send slot. Safe to call once per successful TryAcquire
// on every outcome path.
func (g *Gate) Release(phone string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.inFlight[phone] = false
}
