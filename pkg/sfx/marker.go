// Package sfx turns inline effect markers in the narration script into a
// sparse rendered effect stem, backed by a persistent effect library.
package sfx

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// DefaultDuration is used when a marker does not specify one.
const DefaultDuration = 3.0

// contextRadius is how much surrounding text is kept with a marker for
// diagnostics.
const contextRadius = 40

// Marker is one effect cue parsed from the narration markup.
type Marker struct {
	Raw         string  // full marker text as written
	Description string  // effect name or freeform description
	Offset      int     // character position in the script
	Context     string  // surrounding narration text
	At          float64 // audio time, filled in by Resolve
	Duration    float64 // seconds
	LibraryID   string  // set when resolved against the library
}

// Two marker syntaxes: a structured key:value form and a freeform
// descriptive form.
//
//	[sfx: name=soft chime duration=2.5]
//	[*distant thunder rolling*]
var (
	structuredRe = regexp.MustCompile(`\[sfx:([^\]]+)\]`)
	freeformRe   = regexp.MustCompile(`\[\*([^*\]]+)\*\]`)
)

// ParseMarkers extracts every effect marker from the script, in order of
// appearance.
func ParseMarkers(script string) []Marker {
	var markers []Marker

	for _, m := range structuredRe.FindAllStringSubmatchIndex(script, -1) {
		body := script[m[2]:m[3]]
		marker := Marker{
			Raw:      script[m[0]:m[1]],
			Offset:   m[0],
			Context:  contextAround(script, m[0], m[1]),
			Duration: DefaultDuration,
		}
		for key, value := range parseKeyValues(body) {
			switch key {
			case "name", "effect":
				marker.Description = value
			case "duration":
				if d, err := strconv.ParseFloat(value, 64); err == nil && d > 0 {
					marker.Duration = d
				}
			}
		}
		if marker.Description == "" {
			marker.Description = strings.TrimSpace(body)
		}
		markers = append(markers, marker)
	}

	for _, m := range freeformRe.FindAllStringSubmatchIndex(script, -1) {
		markers = append(markers, Marker{
			Raw:         script[m[0]:m[1]],
			Description: strings.TrimSpace(script[m[2]:m[3]]),
			Offset:      m[0],
			Context:     contextAround(script, m[0], m[1]),
			Duration:    DefaultDuration,
		})
	}

	sort.SliceStable(markers, func(i, j int) bool {
		return markers[i].Offset < markers[j].Offset
	})
	return markers
}

// parseKeyValues splits the structured marker body into key/value pairs.
// Values may contain spaces; the next key= or end of body terminates one.
func parseKeyValues(body string) map[string]string {
	out := make(map[string]string)
	rest := strings.TrimSpace(body)
	for rest != "" {
		eq := strings.Index(rest, "=")
		if eq <= 0 {
			break
		}
		key := strings.TrimSpace(rest[:eq])
		rest = rest[eq+1:]

		// Value runs until the next " key=" boundary.
		next := len(rest)
		for i := 0; i < len(rest); i++ {
			if rest[i] == ' ' {
				tail := rest[i+1:]
				if j := strings.Index(tail, "="); j > 0 && !strings.ContainsAny(tail[:j], " ") {
					next = i
					break
				}
			}
		}
		out[key] = strings.TrimSpace(rest[:next])
		if next == len(rest) {
			break
		}
		rest = strings.TrimSpace(rest[next:])
	}
	return out
}

func contextAround(script string, start, end int) string {
	lo := start - contextRadius
	if lo < 0 {
		lo = 0
	}
	hi := end + contextRadius
	if hi > len(script) {
		hi = len(script)
	}
	return script[lo:hi]
}

// AlignPoint anchors a character offset to an audio time. The alignment
// is supplied by the voice-synthesis stage; this package only consumes it.
type AlignPoint struct {
	Offset int     `yaml:"offset"`
	Time   float64 `yaml:"time"`
}

// Alignment is a piecewise-linear char-to-time map, ordered by offset.
type Alignment []AlignPoint

// TimeAt interpolates the audio time for a character offset. Offsets
// outside the map clamp to its ends.
func (a Alignment) TimeAt(offset int) float64 {
	if len(a) == 0 {
		return 0
	}
	if offset <= a[0].Offset {
		return a[0].Time
	}
	for i := 1; i < len(a); i++ {
		if offset <= a[i].Offset {
			prev, cur := a[i-1], a[i]
			span := cur.Offset - prev.Offset
			if span <= 0 {
				return cur.Time
			}
			frac := float64(offset-prev.Offset) / float64(span)
			return prev.Time + (cur.Time-prev.Time)*frac
		}
	}
	return a[len(a)-1].Time
}

// Resolve fills each marker's audio time from the alignment.
func Resolve(markers []Marker, align Alignment) {
	for i := range markers {
		markers[i].At = align.TimeAt(markers[i].Offset)
	}
}
