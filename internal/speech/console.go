package speech

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

// DefaultWordsPerMinute is the speaking speed at rate 1.
const DefaultWordsPerMinute = 150

// DefaultVoices are the voices offered by a ConsoleEngine.
var DefaultVoices = []Voice{
	{Name: "Anna (female)", Lang: "de-DE"},
	{Name: "Markus (male)", Lang: "de-DE"},
	{Name: "Samantha (female)", Lang: "en-US"},
}

// ConsoleEngine writes each utterance to a writer and reports it finished
// after the time a speaker would need for it.
type ConsoleEngine struct {
	w      io.Writer
	wpm    int
	voices []Voice

	mu     sync.Mutex
	active *job
}

type job struct {
	done      func(error)
	timer     *time.Timer
	started   time.Time
	remaining time.Duration
	paused    bool
}

type ConsoleOption func(*ConsoleEngine)

func WithWordsPerMinute(wpm int) ConsoleOption {
	return func(e *ConsoleEngine) {
		if wpm > 0 {
			e.wpm = wpm
		}
	}
}

func WithVoices(voices []Voice) ConsoleOption {
	return func(e *ConsoleEngine) { e.voices = voices }
}

func NewConsoleEngine(w io.Writer, opts ...ConsoleOption) *ConsoleEngine {
	e := &ConsoleEngine{
		w:      w,
		wpm:    DefaultWordsPerMinute,
		voices: DefaultVoices,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *ConsoleEngine) Voices() []Voice {
	out := make([]Voice, len(e.voices))
	copy(out, e.voices)
	return out
}

// Duration is how long u takes to speak at the engine's speed.
func (e *ConsoleEngine) Duration(u Utterance) time.Duration {
	rate := u.Rate
	if rate <= 0 {
		rate = 1
	}
	words := len(strings.Fields(u.Text))
	return time.Duration(float64(words) * float64(time.Minute) / (float64(e.wpm) * rate))
}

func (e *ConsoleEngine) Speak(u Utterance, done func(error)) {
	e.Cancel()

	if _, err := fmt.Fprintf(e.w, "» %s\n", u.Text); err != nil {
		go done(fmt.Errorf("speech: failed to write utterance: %w", err))
		return
	}

	j := &job{done: done, started: time.Now(), remaining: e.Duration(u)}

	e.mu.Lock()
	e.active = j
	j.timer = time.AfterFunc(j.remaining, func() { e.finish(j) })
	e.mu.Unlock()
}

func (e *ConsoleEngine) finish(j *job) {
	e.mu.Lock()
	if e.active != j || j.paused {
		e.mu.Unlock()
		return
	}
	e.active = nil
	e.mu.Unlock()

	j.done(nil)
}

func (e *ConsoleEngine) Pause() {
	e.mu.Lock()
	defer e.mu.Unlock()

	j := e.active
	if j == nil || j.paused {
		return
	}
	j.timer.Stop()
	j.remaining -= time.Since(j.started)
	if j.remaining < 0 {
		j.remaining = 0
	}
	j.paused = true
}

func (e *ConsoleEngine) Resume() {
	e.mu.Lock()
	defer e.mu.Unlock()

	j := e.active
	if j == nil || !j.paused {
		return
	}
	j.paused = false
	j.started = time.Now()
	j.timer = time.AfterFunc(j.remaining, func() { e.finish(j) })
}

// Cancel stops the current utterance without calling its callback.
func (e *ConsoleEngine) Cancel() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.active == nil {
		return
	}
	e.active.timer.Stop()
	e.active = nil
}
