package audio

import (
	"fmt"
	"os"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/wav"
)

// resampleQuality balances speed against interpolation accuracy when an
// input file does not match the session rate.
const resampleQuality = 4

// LoadWAV reads a WAV file into a stereo buffer at the requested sample
// rate, resampling when the file rate differs. Mono files are duplicated
// into both channels by the decoder.
func LoadWAV(path string, rate int) (*Buffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	stream, format, err := wav.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	defer stream.Close()

	var src beep.Streamer = stream
	if int(format.SampleRate) != rate {
		src = beep.Resample(resampleQuality, format.SampleRate, beep.SampleRate(rate), stream)
	}

	buf := &Buffer{Rate: rate}
	chunk := make([][2]float64, 4096)
	for {
		n, ok := src.Stream(chunk)
		for i := 0; i < n; i++ {
			buf.L = append(buf.L, chunk[i][0])
			buf.R = append(buf.R, chunk[i][1])
		}
		if !ok {
			break
		}
	}
	if err := stream.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return buf, nil
}

// SaveWAV writes a buffer as 16-bit PCM. The file is created fresh and
// closed on every path.
func SaveWAV(path string, b *Buffer) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	format := beep.Format{
		SampleRate:  beep.SampleRate(b.Rate),
		NumChannels: 2,
		Precision:   2,
	}
	if err := wav.Encode(f, &bufferStreamer{buf: b}, format); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return nil
}

// bufferStreamer adapts a Buffer to the beep.Streamer interface for the
// WAV encoder.
type bufferStreamer struct {
	buf *Buffer
	pos int
}

func (s *bufferStreamer) Stream(samples [][2]float64) (int, bool) {
	if s.pos >= s.buf.Frames() {
		return 0, false
	}
	n := 0
	for i := range samples {
		if s.pos >= s.buf.Frames() {
			break
		}
		samples[i][0] = s.buf.L[s.pos]
		samples[i][1] = s.buf.R[s.pos]
		s.pos++
		n++
	}
	return n, true
}

func (s *bufferStreamer) Err() error { return nil }
