// Package input turns raw terminal bytes into per-frame key state.
package input

import (
	"bufio"
	"sync"
	"time"
)

// keyHoldDuration is how long a key is considered "held" after its last press.
// Terminals only report key repeats, never key releases.
const keyHoldDuration = 30 * time.Millisecond

// Input represents the current frame's input state.
type Input struct {
	Quit    bool
	Left    bool
	Right   bool
	UpLeft  bool
	UpRight bool
	Up      bool
	Down    bool
	Space   bool
	Enter   bool
	Escape  bool
	Pause   bool
}

// Any reports whether any key is held.
func (in Input) Any() bool {
	return in.Quit || in.Left || in.Right || in.UpLeft || in.UpRight ||
		in.Up || in.Down || in.Space || in.Enter || in.Escape || in.Pause
}

type key int

const (
	keyQuit key = iota
	keyLeft
	keyRight
	keyUpLeft
	keyUpRight
	keyUp
	keyDown
	keySpace
	keyEnter
	keyEscape
	keyPause
	keyCount
)

// Stream delivers input bytes via a channel and tracks key state for combinations.
type Stream struct {
	ch     chan byte
	done   chan struct{}
	stop   sync.Once
	last   [keyCount]time.Time
	buf    []byte
	closed bool
}

// StartStream spawns a goroutine that reads from r and sends bytes to the stream.
// The stream is closed once r returns an error. Call Stop when done reading so
// the goroutine does not block on a full buffer.
func StartStream(r *bufio.Reader) *Stream {
	s := newStream()
	go func() {
		defer close(s.ch)
		for {
			b, err := r.ReadByte()
			if err != nil {
				return
			}
			select {
			case s.ch <- b:
			case <-s.done:
				return
			}
		}
	}()
	return s
}

func newStream() *Stream {
	return &Stream{ch: make(chan byte, 128), done: make(chan struct{})}
}

// Stop releases the reader goroutine. Bytes read afterwards are dropped.
func (s *Stream) Stop() {
	s.stop.Do(func() { close(s.done) })
}

// Closed reports whether the underlying reader has gone away.
func (s *Stream) Closed() bool {
	return s.closed
}

// Read drains all available bytes without blocking and returns the keys
// held at this moment.
func (s *Stream) Read() Input {
	return s.readAt(time.Now())
}

func (s *Stream) readAt(now time.Time) Input {
	s.buf = s.buf[:0]
drain:
	for {
		select {
		case b, ok := <-s.ch:
			if !ok {
				s.closed = true
				break drain
			}
			s.buf = append(s.buf, b)
		default:
			break drain
		}
	}

	s.apply(s.buf, now)
	in := s.held(now)
	if s.closed {
		in.Quit = true
	}
	return in
}

// apply records a press time for every key found in buf. Arrow keys arrive as
// ESC [ A..D; a lone ESC is the escape key.
func (s *Stream) apply(buf []byte, now time.Time) {
	for i := 0; i < len(buf); i++ {
		b := buf[i]
		if b == '\x1b' && i+2 < len(buf) && buf[i+1] == '[' {
			if k, ok := arrowKey(buf[i+2]); ok {
				s.last[k] = now
				i += 2
				continue
			}
		}
		if k, ok := byteKey(b); ok {
			s.last[k] = now
		}
	}
}

func (s *Stream) held(now time.Time) Input {
	on := func(k key) bool {
		return !s.last[k].IsZero() && now.Sub(s.last[k]) < keyHoldDuration
	}
	return Input{
		Quit:    on(keyQuit),
		Left:    on(keyLeft),
		Right:   on(keyRight),
		UpLeft:  on(keyUpLeft),
		UpRight: on(keyUpRight),
		Up:      on(keyUp),
		Down:    on(keyDown),
		Space:   on(keySpace),
		Enter:   on(keyEnter),
		Escape:  on(keyEscape),
		Pause:   on(keyPause),
	}
}

func arrowKey(b byte) (key, bool) {
	switch b {
	case 'A':
		return keyUp, true
	case 'B':
		return keyDown, true
	case 'C':
		return keyRight, true
	case 'D':
		return keyLeft, true
	}
	return 0, false
}

func byteKey(b byte) (key, bool) {
	switch b {
	case 'q', 'Q', '\x03':
		return keyQuit, true
	case 'a', 'A', 'j', 'J':
		return keyLeft, true
	case 'd', 'D', 'l', 'L':
		return keyRight, true
	case 'w', 'W', 'i', 'I':
		return keyUp, true
	case 's', 'S', 'k', 'K':
		return keyDown, true
	case 'u', 'U':
		return keyUpLeft, true
	case 'o', 'O':
		return keyUpRight, true
	case ' ':
		return keySpace, true
	case '\n', '\r':
		return keyEnter, true
	case '\x1b':
		return keyEscape, true
	case 'p', 'P':
		return keyPause, true
	}
	return 0, false
}
