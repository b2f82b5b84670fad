package input

import (
	"bufio"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func feed(s *Stream, data string) {
	for i := 0; i < len(data); i++ {
		s.ch <- data[i]
	}
}

func TestStream_KeysAndArrows(t *testing.T) {
	s := newStream()
	now := time.Unix(100, 0)

	feed(s, "w \x1b[D")
	in := s.readAt(now)

	assert.True(t, in.Up)
	assert.True(t, in.Space)
	assert.True(t, in.Left)
	assert.False(t, in.Escape, "arrow prefix is not an escape press")
	assert.False(t, in.Right)
}

func TestStream_HoldExpires(t *testing.T) {
	s := newStream()
	now := time.Unix(100, 0)

	feed(s, "d")
	assert.True(t, s.readAt(now).Right)
	assert.True(t, s.readAt(now.Add(keyHoldDuration/2)).Right, "still held")
	assert.False(t, s.readAt(now.Add(keyHoldDuration)).Right)
}

func TestStream_Combination(t *testing.T) {
	s := newStream()
	now := time.Unix(100, 0)

	feed(s, "a")
	s.readAt(now)
	feed(s, "w")
	in := s.readAt(now.Add(10 * time.Millisecond))

	assert.True(t, in.Left)
	assert.True(t, in.Up)
	assert.True(t, in.Any())
}

func TestStream_NothingPressed(t *testing.T) {
	s := newStream()
	in := s.readAt(time.Unix(100, 0))
	assert.False(t, in.Any())
	assert.False(t, s.Closed())
}

func TestStartStream_ClosedReaderQuits(t *testing.T) {
	s := StartStream(bufio.NewReader(strings.NewReader("p")))

	var in Input
	require.Eventually(t, func() bool {
		in = s.Read()
		return s.Closed()
	}, time.Second, time.Millisecond)
	assert.True(t, in.Quit)
}

func TestStartStream_StopReleasesReader(t *testing.T) {
	// More input than the buffer holds, with nobody reading it.
	s := StartStream(bufio.NewReader(strings.NewReader(strings.Repeat("w", 4096))))
	require.Eventually(t, func() bool { return len(s.ch) == cap(s.ch) }, time.Second, time.Millisecond)

	s.Stop()
	s.Stop()

	require.Eventually(t, func() bool {
		for {
			select {
			case _, ok := <-s.ch:
				if !ok {
					return true
				}
			default:
				return false
			}
		}
	}, time.Second, time.Millisecond, "the reader goroutine exits and closes the channel")
}
