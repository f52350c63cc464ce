// Package player reads a news briefing aloud. Machine holds the playback
// rules; Player drives a Machine with a speech engine and a news source.
package player

import (
	"slices"
	"time"

	"github.com/ryosukesatoh/calm-news/internal/demo"
	"github.com/ryosukesatoh/calm-news/internal/news"
)

// State is the playback state.
type State int

const (
	Idle State = iota
	Loading
	Playing
	Paused
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	default:
		return "unknown"
	}
}

const (
	Outro              = "Das waren die Nachrichten. Vielen Dank fürs Zuhören."
	SpeechErrorMessage = "Die Sprachausgabe wurde unterbrochen."

	greeting      = "Guten Tag. Hier sind die Nachrichten. "
	weatherLeadIn = "Und nun zum Wetter: "
	localLeadIn   = "Aus Ihrer Region: "
)

// DefaultPause separates two items.
const DefaultPause = time.Second

// Effect is a side effect requested by a transition.
type Effect interface {
	effect()
}

// Load asks for the briefing of City. Report the result with Loaded or
// LoadFailed using Gen.
type Load struct {
	City string
	Gen  uint64
}

// Speak starts an utterance. Report its end with SpeechEnded or
// SpeechFailed using Gen.
type Speak struct {
	Text string
	Gen  uint64
}

// Cancel stops the active utterance.
type Cancel struct{}

type PauseSpeech struct{}

type ResumeSpeech struct{}

// ScheduleAdvance asks for Advance(Gen) after a delay.
type ScheduleAdvance struct {
	After time.Duration
	Gen   uint64
}

func (Load) effect()            {}
func (Speak) effect()           {}
func (Cancel) effect()          {}
func (PauseSpeech) effect()     {}
func (ResumeSpeech) effect()    {}
func (ScheduleAdvance) effect() {}

// Snapshot is a copy of the observable playback state. Index is only
// meaningful while playing or paused.
type Snapshot struct {
	State  State
	Items  []news.Item
	Index  int
	IsLive bool
	City   string
	Err    string
}

// Current returns the item being read, if any.
func (s Snapshot) Current() (news.Item, bool) {
	if (s.State != Playing && s.State != Paused) || s.Index < 0 || s.Index >= len(s.Items) {
		return news.Item{}, false
	}
	return s.Items[s.Index], true
}

// Machine is the playback state machine. It is not safe for concurrent
// use. Every input that may race with a newer action carries the
// generation it was issued under and is ignored when stale.
type Machine struct {
	state   State
	items   []news.Item
	index   int
	live    bool
	city    string
	err     string
	gen     uint64
	pause   time.Duration
	closing bool
	pending bool
}

func NewMachine(pause time.Duration) *Machine {
	return &Machine{pause: pause}
}

func (m *Machine) State() State { return m.state }

func (m *Machine) Gen() uint64 { return m.gen }

func (m *Machine) Snapshot() Snapshot {
	return Snapshot{
		State:  m.state,
		Items:  slices.Clone(m.items),
		Index:  m.index,
		IsLive: m.live,
		City:   m.city,
		Err:    m.err,
	}
}

func (m *Machine) Start(city string) []Effect {
	if m.state != Idle {
		return nil
	}
	m.gen++
	m.state = Loading
	m.city = city
	m.err = ""
	return []Effect{Load{City: city, Gen: m.gen}}
}

func (m *Machine) Loaded(gen uint64, items []news.Item, live bool) []Effect {
	if m.state != Loading || gen != m.gen {
		return nil
	}
	if len(items) == 0 {
		m.reset()
		return nil
	}
	m.items = slices.Clone(items)
	m.live = live
	m.index = 0
	m.state = Playing
	return m.speakCurrent()
}

// LoadFailed plays the demo briefing for city instead.
func (m *Machine) LoadFailed(gen uint64, city string) []Effect {
	return m.Loaded(gen, demo.News(city), false)
}

func (m *Machine) SpeechEnded(gen uint64) []Effect {
	if gen != m.gen || !m.active() {
		return nil
	}
	if m.closing {
		m.reset()
		return nil
	}
	if m.index < len(m.items)-1 {
		return []Effect{ScheduleAdvance{After: m.pause, Gen: gen}}
	}
	m.closing = true
	return m.speak(Outro)
}

func (m *Machine) Advance(gen uint64) []Effect {
	if gen != m.gen {
		return nil
	}
	switch m.state {
	case Paused:
		m.pending = true
		return nil
	case Playing:
		if m.index >= len(m.items)-1 {
			return nil
		}
		m.index++
		return m.speakCurrent()
	default:
		return nil
	}
}

func (m *Machine) Pause() []Effect {
	if m.state != Playing {
		return nil
	}
	m.state = Paused
	return []Effect{PauseSpeech{}}
}

func (m *Machine) Resume() []Effect {
	if m.state != Paused {
		return nil
	}
	m.state = Playing
	if m.pending {
		m.pending = false
		if m.index < len(m.items)-1 {
			m.index++
			return m.speakCurrent()
		}
	}
	return []Effect{ResumeSpeech{}}
}

func (m *Machine) TogglePause() []Effect {
	if m.state == Paused {
		return m.Resume()
	}
	return m.Pause()
}

func (m *Machine) Next() []Effect {
	if !m.active() || m.index >= len(m.items)-1 {
		return nil
	}
	return m.jump(m.index + 1)
}

func (m *Machine) Previous() []Effect {
	if !m.active() || m.index <= 0 {
		return nil
	}
	return m.jump(m.index - 1)
}

func (m *Machine) Stop() []Effect {
	if m.state == Idle {
		return nil
	}
	m.reset()
	m.gen++
	return []Effect{Cancel{}}
}

func (m *Machine) SpeechFailed(gen uint64) []Effect {
	if gen != m.gen || m.state == Idle {
		return nil
	}
	m.reset()
	m.gen++
	m.err = SpeechErrorMessage
	return []Effect{Cancel{}}
}

func (m *Machine) active() bool {
	return m.state == Playing || m.state == Paused
}

func (m *Machine) jump(index int) []Effect {
	m.index = index
	m.state = Playing
	m.closing = false
	m.pending = false
	return append([]Effect{Cancel{}}, m.speakCurrent()...)
}

func (m *Machine) speakCurrent() []Effect {
	return m.speak(Narration(m.items[m.index], m.index))
}

func (m *Machine) speak(text string) []Effect {
	m.gen++
	return []Effect{Speak{Text: text, Gen: m.gen}}
}

func (m *Machine) reset() {
	m.state = Idle
	m.items = nil
	m.index = 0
	m.closing = false
	m.pending = false
}

// Narration is the spoken text for the item at index.
func Narration(item news.Item, index int) string {
	return leadIn(item.Type, index) + item.Headline + ". " + item.Summary
}

func leadIn(t news.Type, index int) string {
	switch {
	case t == news.TypeWeather:
		return weatherLeadIn
	case t == news.TypeLocal:
		return localLeadIn
	case index == 0:
		return greeting
	default:
		return ""
	}
}
