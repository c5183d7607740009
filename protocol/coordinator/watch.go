package coordinator

import "github.com/veriai-sys/veriai-go/protocol"

// A watcher receives the latest snapshot of a session after every change.
// The channel has room for one snapshot: a slow reader skips intermediate
// states but always sees the most recent one.
type watcher struct {
	ch     chan *protocol.SessionView
	closed bool
}

func (w *watcher) send(v *protocol.SessionView) {
	if w.closed {
		return
	}
	select {
	case <-w.ch:
	default:
	}
	w.ch <- v
	if v.Status.IsTerminal() {
		close(w.ch)
		w.closed = true
	}
}

// notify delivers v to every watcher of e. Watchers are dropped once the
// session is terminal. e.mu must be held.
func (e *entry) notify(v *protocol.SessionView) {
	for _, w := range e.watchers {
		w.send(v)
	}
	if v.Status.IsTerminal() {
		e.watchers = nil
	}
}

// Watch subscribes to changes of the session with the given id. The
// returned channel first yields the current snapshot, then the snapshot
// after every change, and is closed after the terminal snapshot was
// delivered. Calling the returned cancel function stops the subscription
// and closes the channel if it is still open.
//
// Watch returns ReqSessionNotFound if the session is unknown.
func (c *Coordinator) Watch(sessionID string) (<-chan *protocol.SessionView, func(), error) {
	e := c.lookup(sessionID)
	if e == nil {
		return nil, nil, protocol.ReqSessionNotFound
	}
	w := &watcher{ch: make(chan *protocol.SessionView, 1)}

	e.mu.Lock()
	w.send(e.session.View())
	if !w.closed {
		e.watchers = append(e.watchers, w)
	}
	e.mu.Unlock()

	cancel := func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		for i, x := range e.watchers {
			if x == w {
				e.watchers = append(e.watchers[:i], e.watchers[i+1:]...)
				break
			}
		}
		if !w.closed {
			close(w.ch)
			w.closed = true
		}
	}
	return w.ch, cancel, nil
}
