package player

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/ryosukesatoh/calm-news/internal/speech"
)

// Settings shape every utterance.
type Settings struct {
	Language string
	Rate     float64
	Pitch    float64
	Volume   float64
	Pause    time.Duration
}

// DefaultSettings are slow and clear German speech.
func DefaultSettings() Settings {
	return Settings{
		Language: "de",
		Rate:     0.85,
		Pitch:    1,
		Volume:   1,
		Pause:    DefaultPause,
	}
}

type event func(m *Machine) []Effect

// Player owns a Machine on a single goroutine started by Run. Commands,
// speech callbacks and timers are posted to that goroutine as events.
type Player struct {
	engine   speech.Engine
	source   Source
	settings Settings
	voice    speech.Voice
	session  string
	logger   *log.Logger

	machine *Machine
	events  chan event
	done    chan struct{}

	mu       sync.RWMutex
	snap     Snapshot
	onChange func(Snapshot)

	cancelLoad context.CancelFunc
}

type Option func(*Player)

func WithSettings(s Settings) Option {
	return func(p *Player) { p.settings = s }
}

func WithLogger(l *log.Logger) Option {
	return func(p *Player) { p.logger = l }
}

func New(engine speech.Engine, source Source, opts ...Option) *Player {
	p := &Player{
		engine:   engine,
		source:   source,
		settings: DefaultSettings(),
		session:  uuid.NewString(),
		logger:   log.New(io.Discard),
		events:   make(chan event, 16),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.machine = NewMachine(p.settings.Pause)
	p.voice = speech.SelectVoice(engine.Voices(), p.settings.Language)
	p.logger = p.logger.With("session", p.session)
	return p
}

// Session identifies this player in logs.
func (p *Player) Session() string { return p.session }

// Voice is the voice chosen for the configured language.
func (p *Player) Voice() speech.Voice { return p.voice }

// OnChange registers fn to be called on the Run goroutine after every
// processed event.
func (p *Player) OnChange(fn func(Snapshot)) {
	p.mu.Lock()
	p.onChange = fn
	p.mu.Unlock()
}

func (p *Player) Snapshot() Snapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.snap
}

func (p *Player) Start(cityID string) {
	p.post(func(m *Machine) []Effect { return m.Start(cityID) })
}

func (p *Player) TogglePause() { p.post((*Machine).TogglePause) }

func (p *Player) Pause() { p.post((*Machine).Pause) }

func (p *Player) Resume() { p.post((*Machine).Resume) }

func (p *Player) Next() { p.post((*Machine).Next) }

func (p *Player) Previous() { p.post((*Machine).Previous) }

func (p *Player) Stop() { p.post((*Machine).Stop) }

// Run processes events until ctx is done. Speech is cancelled on return.
func (p *Player) Run(ctx context.Context) error {
	defer close(p.done)
	p.logger.Debug("player started", "voice", p.voice.Name)

	for {
		select {
		case <-ctx.Done():
			p.engine.Cancel()
			p.stopLoad()
			return ctx.Err()
		case ev := <-p.events:
			before := p.machine.State()
			p.execute(ctx, ev(p.machine))
			if after := p.machine.State(); after != before {
				p.logger.Debug("state changed", "from", before, "to", after)
			}
			p.publish()
		}
	}
}

func (p *Player) post(ev event) {
	select {
	case p.events <- ev:
	case <-p.done:
	}
}

func (p *Player) publish() {
	snap := p.machine.Snapshot()

	p.mu.Lock()
	p.snap = snap
	fn := p.onChange
	p.mu.Unlock()

	if fn != nil {
		fn(snap)
	}
}

func (p *Player) execute(ctx context.Context, effects []Effect) {
	for _, eff := range effects {
		switch e := eff.(type) {
		case Load:
			p.load(ctx, e)
		case Speak:
			p.speak(e)
		case Cancel:
			p.engine.Cancel()
			p.stopLoad()
		case PauseSpeech:
			p.engine.Pause()
		case ResumeSpeech:
			p.engine.Resume()
		case ScheduleAdvance:
			gen := e.Gen
			time.AfterFunc(e.After, func() {
				p.post(func(m *Machine) []Effect { return m.Advance(gen) })
			})
		}
	}
}

// stopLoad abandons the briefing request in flight, if any.
func (p *Player) stopLoad() {
	if p.cancelLoad != nil {
		p.cancelLoad()
		p.cancelLoad = nil
	}
}

func (p *Player) load(ctx context.Context, e Load) {
	p.stopLoad()
	loadCtx, cancel := context.WithCancel(ctx)
	p.cancelLoad = cancel

	go func() {
		defer cancel()
		resp, err := p.source.Fetch(loadCtx, e.City)
		if err != nil {
			if loadCtx.Err() != nil {
				p.logger.Debug("briefing request abandoned", "city", e.City)
				return
			}
			p.logger.Warn("briefing unavailable, using demo content", "city", e.City, "err", err)
			p.post(func(m *Machine) []Effect { return m.LoadFailed(e.Gen, e.City) })
			return
		}
		p.logger.Debug("briefing loaded", "city", e.City, "items", len(resp.News), "live", resp.IsLive)
		p.post(func(m *Machine) []Effect { return m.Loaded(e.Gen, resp.News, resp.IsLive) })
	}()
}

func (p *Player) speak(e Speak) {
	u := speech.Utterance{
		Text:   e.Text,
		Voice:  p.voice,
		Lang:   p.settings.Language,
		Rate:   p.settings.Rate,
		Pitch:  p.settings.Pitch,
		Volume: p.settings.Volume,
	}
	gen := e.Gen
	p.engine.Speak(u, func(err error) {
		if err != nil {
			p.logger.Error("speech failed", "err", err)
			p.post(func(m *Machine) []Effect { return m.SpeechFailed(gen) })
			return
		}
		p.post(func(m *Machine) []Effect { return m.SpeechEnded(gen) })
	})
}
