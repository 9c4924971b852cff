package sfx

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/driftsignal/entrain/pkg/audio"
)

// DefaultMatchThreshold is the fuzzy-match score below which a marker is
// treated as a library miss. Tunable; the matching heuristic is not an
// exact science.
const DefaultMatchThreshold = 0.6

const indexFile = "index.yaml"

// Entry is one cached effect in the library index.
type Entry struct {
	ID       string   `yaml:"id"`
	Name     string   `yaml:"name"`
	Tags     []string `yaml:"tags,omitempty"`
	Duration float64  `yaml:"duration"`
	File     string   `yaml:"file"`
}

// Library is the cross-session effect cache: rendered WAVs plus a YAML
// index. Writes are append-only and best-effort; losing one on a crash
// just means the effect is synthesized again next time.
type Library struct {
	dir       string
	threshold float64
	entries   []Entry
}

// OpenLibrary loads the library at dir. A missing directory or index is
// the explicit empty-library branch, not an error; a corrupt index is.
func OpenLibrary(dir string, threshold float64) (*Library, error) {
	if threshold <= 0 {
		threshold = DefaultMatchThreshold
	}
	lib := &Library{dir: dir, threshold: threshold}

	data, err := os.ReadFile(filepath.Join(dir, indexFile))
	if os.IsNotExist(err) {
		return lib, nil
	}
	if err != nil {
		return nil, fmt.Errorf("sfx library %s: %w", dir, err)
	}
	if err := yaml.Unmarshal(data, &lib.entries); err != nil {
		return nil, fmt.Errorf("sfx library index %s: %w", dir, err)
	}
	return lib, nil
}

// Len returns the number of cached effects.
func (l *Library) Len() int {
	return len(l.entries)
}

// Match scores the description against every entry and returns the best
// entry when it clears the threshold.
func (l *Library) Match(description string) (Entry, bool) {
	want := tokens(description)
	if len(want) == 0 {
		return Entry{}, false
	}

	var best Entry
	bestScore := 0.0
	for _, e := range l.entries {
		have := tokens(e.Name + " " + strings.Join(e.Tags, " "))
		score := overlap(want, have)
		if score > bestScore {
			bestScore = score
			best = e
		}
	}
	if bestScore < l.threshold {
		return Entry{}, false
	}
	return best, true
}

// Load reads a cached entry's render.
func (l *Library) Load(e Entry, rate int) (*audio.Buffer, error) {
	return audio.LoadWAV(filepath.Join(l.dir, e.File), rate)
}

// Add renders the effect into the library and appends it to the index.
// Failures are logged and swallowed; the cache is best-effort by design.
func (l *Library) Add(description string, buf *audio.Buffer) {
	id := slug(description)
	if id == "" {
		return
	}
	file := id + ".wav"

	if err := os.MkdirAll(l.dir, 0o755); err != nil {
		log.WithError(err).WithField("dir", l.dir).Warn("sfx library not writable, skipping cache")
		return
	}
	if err := audio.SaveWAV(filepath.Join(l.dir, file), buf); err != nil {
		log.WithError(err).WithField("effect", id).Warn("failed to cache effect render")
		return
	}

	l.entries = append(l.entries, Entry{
		ID:       id,
		Name:     description,
		Tags:     tokens(description),
		Duration: buf.Duration(),
		File:     file,
	})
	if err := l.writeIndex(); err != nil {
		log.WithError(err).Warn("failed to update sfx library index")
	}
}

func (l *Library) writeIndex() error {
	data, err := yaml.Marshal(l.entries)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(l.dir, indexFile), data, 0o644)
}

// tokens normalizes a description into lowercase word tokens.
func tokens(s string) []string {
	fields := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !('a' <= r && r <= 'z' || '0' <= r && r <= '9')
	})
	out := fields[:0]
	for _, f := range fields {
		if len(f) > 1 {
			out = append(out, f)
		}
	}
	return out
}

// overlap scores how much of want is covered by have, in [0, 1].
func overlap(want, have []string) float64 {
	set := make(map[string]bool, len(have))
	for _, t := range have {
		set[t] = true
	}
	hits := 0
	for _, t := range want {
		if set[t] {
			hits++
		}
	}
	return float64(hits) / float64(len(want))
}

func slug(s string) string {
	return strings.Join(tokens(s), "-")
}
