package voice

import (
	"context"
	"math/rand"
	"strings"
	"sync"
	"time"
)

// SampleTranscripts is the fixed script the mock recogniser replays
var SampleTranscripts = []string{
	"I need 5 kg tomatoes under 10 rupees per kg",
	"Order 3 kg onions maximum 15 rupees per kg",
	"Get me 2 kg potatoes below 8 rupees per kg",
}

// Picker chooses an index in [0, n)
type Picker func(n int) int

// RandomPicker draws uniformly at random
func RandomPicker(n int) int {
	return rand.Intn(n)
}

// PickTranscript draws one of the sample sentences
func PickTranscript(pick Picker) string {
	if pick == nil {
		pick = RandomPicker
	}
	return SampleTranscripts[pick(len(SampleTranscripts))]
}

// Timing controls the reveal cadence
type Timing struct {
	WordInterval time.Duration
	SettleDelay  time.Duration
}

// DefaultTiming is 300ms per word and a 500ms settle
var DefaultTiming = Timing{
	WordInterval: 300 * time.Millisecond,
	SettleDelay:  500 * time.Millisecond,
}

// RevealDuration is the time from start until completion fires
func RevealDuration(wordCount int, timing Timing) time.Duration {
	if wordCount < 1 {
		return timing.SettleDelay
	}
	return time.Duration(wordCount-1)*timing.WordInterval + timing.SettleDelay
}

// Hooks receive capture progress. They run on the capture goroutine.
type Hooks struct {
	OnWord     func(transcript string)
	OnComplete func(transcript string)
}

// Capture is one listening session replaying a sentence word by word
type Capture struct {
	cancel context.CancelFunc
	done   chan struct{}

	mu      sync.Mutex
	stopped bool
}

// StartCapture begins revealing sentence. Cancelling ctx or calling Stop ends it.
func StartCapture(ctx context.Context, sentence string, timing Timing, hooks Hooks) *Capture {
	ctx, cancel := context.WithCancel(ctx)
	c := &Capture{
		cancel: cancel,
		done:   make(chan struct{}),
	}
	go c.run(ctx, words(sentence), timing, hooks)
	return c
}

func (c *Capture) run(ctx context.Context, ws []string, timing Timing, hooks Hooks) {
	defer close(c.done)
	defer c.cancel()

	var b strings.Builder
	for i, w := range ws {
		if i > 0 {
			if !sleep(ctx, timing.WordInterval) {
				return
			}
			b.WriteByte(' ')
		}
		b.WriteString(w)
		if !c.emit(hooks.OnWord, b.String()) {
			return
		}
	}

	if !sleep(ctx, timing.SettleDelay) {
		return
	}
	c.emit(hooks.OnComplete, b.String())
}

// emit calls fn unless the capture was stopped. Holding mu makes Stop wait for an in-flight hook.
func (c *Capture) emit(fn func(string), transcript string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stopped {
		return false
	}
	if fn != nil {
		fn(transcript)
	}
	return true
}

// Stop cancels the capture. No hook runs after Stop returns.
func (c *Capture) Stop() {
	c.mu.Lock()
	c.stopped = true
	c.mu.Unlock()
	c.cancel()
}

// Done is closed when the capture goroutine exits
func (c *Capture) Done() <-chan struct{} {
	return c.done
}

func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
