// Package ssh adapts SSH sessions so a cabinet can be drawn over them.
package ssh

import (
	"sync"

	"github.com/gdamore/tcell/v2"
	gossh "github.com/gliderlabs/ssh"
)

// Fallback size for clients that report a zero window.
const (
	DefaultWidth  = 80
	DefaultHeight = 24
)

// SessionTty implements tcell.Tty over one SSH session, so every player gets
// a private screen and a private cabinet.
type SessionTty struct {
	session gossh.Session
	mu      sync.Mutex
	window  gossh.Window
	winCh   <-chan gossh.Window
	cb      func() // resize callback registered by tcell
	watch   sync.Once
}

// NewSessionTty wraps s. pty holds the initial window; winCh delivers resizes.
func NewSessionTty(s gossh.Session, pty gossh.Pty, winCh <-chan gossh.Window) *SessionTty {
	return &SessionTty{
		session: s,
		window:  pty.Window,
		winCh:   winCh,
	}
}

func (t *SessionTty) Read(b []byte) (int, error)  { return t.session.Read(b) }
func (t *SessionTty) Write(b []byte) (int, error) { return t.session.Write(b) }
func (t *SessionTty) Close() error                { return t.session.Close() }

// Start, Stop and Drain have nothing to do: the channel is already open and
// the server handler owns its lifetime.
func (t *SessionTty) Start() error { return nil }
func (t *SessionTty) Stop() error  { return nil }
func (t *SessionTty) Drain() error { return nil }

// WindowSize returns the current terminal dimensions.
func (t *SessionTty) WindowSize() (tcell.WindowSize, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return windowSize(t.window), nil
}

func windowSize(w gossh.Window) tcell.WindowSize {
	ws := tcell.WindowSize{Width: w.Width, Height: w.Height}
	if ws.Width <= 0 {
		ws.Width = DefaultWidth
	}
	if ws.Height <= 0 {
		ws.Height = DefaultHeight
	}
	return ws
}

// NotifyResize registers a callback invoked on every window change. The
// channel is drained by a single goroutine for the life of the session, even
// if tcell registers more than once.
func (t *SessionTty) NotifyResize(cb func()) {
	t.mu.Lock()
	t.cb = cb
	t.mu.Unlock()

	t.watch.Do(func() {
		go func() {
			for win := range t.winCh {
				t.mu.Lock()
				t.window = win
				localCb := t.cb
				t.mu.Unlock()
				if localCb != nil {
					localCb()
				}
			}
		}()
	})
}
