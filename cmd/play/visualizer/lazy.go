package visualizer

import (
	"sync"
	"sync/atomic"
)

// Lazy creates the single session on the first Activate call and starts it.
// Later calls return the same session.
type Lazy struct {
	once    sync.Once
	session atomic.Pointer[Session]
	create  func() *Session
	start   func(*Session)
}

// NewLazy defers create and start until the first Activate.
func NewLazy(create func() *Session, start func(*Session)) *Lazy {
	return &Lazy{create: create, start: start}
}

// Activate returns the session and whether this call created it.
func (l *Lazy) Activate() (*Session, bool) {
	created := false
	l.once.Do(func() {
		s := l.create()
		l.session.Store(s)
		if l.start != nil {
			l.start(s)
		}
		created = true
	})
	return l.session.Load(), created
}

// Session returns nil until Activate has been called.
func (l *Lazy) Session() *Session {
	return l.session.Load()
}
