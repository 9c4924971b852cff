package sfx

import (
	log "github.com/sirupsen/logrus"

	"github.com/driftsignal/entrain/pkg/audio"
)

// Timeline renders the resolved markers into one sparse effect stem.
type Timeline struct {
	lib  *Library
	rate int
	// Persist controls whether fresh synth renders are written back to
	// the library for future sessions.
	Persist bool
}

// NewTimeline creates a timeline backed by the given library. lib may be
// nil, in which case every marker is synthesized fresh.
func NewTimeline(lib *Library, rate int) *Timeline {
	return &Timeline{lib: lib, rate: rate, Persist: true}
}

// Render produces the effect stem for a session of the given duration.
// Each marker resolves against the library first and falls back to fresh
// synthesis; a marker that cannot be realized degrades to silence with a
// warning, never a failed render.
func (t *Timeline) Render(markers []Marker, duration float64) *audio.Buffer {
	stem := audio.NewSeconds(t.rate, duration)

	for i := range markers {
		m := &markers[i]
		if m.At >= duration {
			log.WithFields(log.Fields{
				"effect": m.Description,
				"at":     m.At,
			}).Warn("sfx marker lands past the end of the session, skipping")
			continue
		}

		effect := t.resolve(m)
		if effect == nil {
			log.WithFields(log.Fields{
				"effect":  m.Description,
				"context": m.Context,
			}).Warn("unresolvable sfx marker, no effect at this point")
			continue
		}

		stem.AddAt(effect, int(m.At*float64(t.rate)))
	}
	return stem
}

// resolve returns the effect render for a marker: library hit, or fresh
// synthesis (optionally committed back to the library).
func (t *Timeline) resolve(m *Marker) *audio.Buffer {
	if m.Description == "" {
		return nil
	}

	if t.lib != nil {
		if entry, ok := t.lib.Match(m.Description); ok {
			buf, err := t.lib.Load(entry, t.rate)
			if err == nil {
				m.LibraryID = entry.ID
				return buf
			}
			log.WithError(err).WithField("effect", entry.ID).Warn("cached effect unreadable, synthesizing fresh")
		}
	}

	buf := Synthesize(m.Description, t.rate, m.Duration)
	if t.lib != nil && t.Persist {
		t.lib.Add(m.Description, buf)
	}
	return buf
}
