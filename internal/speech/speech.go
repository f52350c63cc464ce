// Package speech defines the speech-synthesis collaborator used by the
// player and a console engine that prints instead of speaking.
package speech

import "strings"

// Voice is a synthesis voice offered by an engine.
type Voice struct {
	Name string
	Lang string
}

// Utterance is one piece of text to be spoken.
type Utterance struct {
	Text   string
	Voice  Voice
	Lang   string
	Rate   float64
	Pitch  float64
	Volume float64
}

// Engine speaks one utterance at a time. Speak replaces whatever is
// currently spoken; done is called once when the utterance finishes or
// fails, never for a cancelled utterance, and never on the caller's
// goroutine.
type Engine interface {
	Voices() []Voice
	Speak(u Utterance, done func(error))
	Pause()
	Resume()
	Cancel()
}

// SelectVoice picks a voice for lang, preferring female voices, then male
// voices, then any voice of that locale. It falls back to the first voice
// and returns the zero Voice when there are none.
func SelectVoice(voices []Voice, lang string) Voice {
	if len(voices) == 0 {
		return Voice{}
	}

	var local []Voice
	for _, v := range voices {
		if strings.HasPrefix(strings.ToLower(v.Lang), strings.ToLower(lang)) {
			local = append(local, v)
		}
	}

	for _, v := range local {
		if strings.Contains(strings.ToLower(v.Name), "female") {
			return v
		}
	}
	for _, v := range local {
		if strings.Contains(strings.ToLower(v.Name), "male") {
			return v
		}
	}
	if len(local) > 0 {
		return local[0]
	}
	return voices[0]
}
