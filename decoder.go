package onda

import (
	"errors"
	"fmt"
	"os"
)

var (
	// ErrNotRiff is returned when the input does not start with a RIFF chunk.
	ErrNotRiff = errors.New("not a RIFF file")
	// ErrNotWave is returned when the RIFF form type is not WAVE.
	ErrNotWave = errors.New("not a WAVE file")
	// ErrDataChunkNotFound is returned when the input ends before a data chunk.
	ErrDataChunkNotFound = errors.New("data chunk not found")
)

// DataBound selects how the size field of the data chunk limits sample reads.
type DataBound int

const (
	// DataBoundLength treats the data chunk size as the number of payload
	// bytes. Only whole frames are decoded; a trailing partial frame is
	// ignored.
	DataBoundLength DataBound = iota
	// DataBoundOffset compares the absolute buffer offset against the data
	// chunk size and reads frames while the offset is below it. Files written
	// by older tools relying on this reading decode the same way here, but a
	// canonical file loses the first HeaderSize bytes worth of samples.
	DataBoundOffset
)

func (b DataBound) String() string {
	switch b {
	case DataBoundLength:
		return "length"
	case DataBoundOffset:
		return "offset"
	default:
		return fmt.Sprintf("DataBound(%d)", int(b))
	}
}

// Decoder decodes 16-bit PCM WAV buffers. The zero value is ready to use and
// a Decoder may be shared between goroutines.
type Decoder struct {
	// DataBound selects the interpretation of the data chunk size.
	DataBound DataBound
	// StrictBitDepth rejects fmt chunks whose bits per sample is not 16.
	// By default the field is only used in the byte rate and block align
	// cross-checks.
	StrictBitDepth bool
}

// Decode parses a complete WAV file held in buf using the default Decoder.
func Decode(buf []byte) (*Record, error) {
	var d Decoder
	return d.Decode(buf)
}

// DecodeFile reads the file at path and decodes it using the default Decoder.
func DecodeFile(path string) (*Record, error) {
	var d Decoder
	return d.DecodeFile(path)
}

// DecodeFile reads the whole file at path and decodes it.
func (d *Decoder) DecodeFile(path string) (*Record, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	rec, err := d.Decode(buf)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}

	return rec, nil
}

// Decode parses a complete WAV file held in buf. The returned Record owns its
// samples; buf may be reused once Decode returns.
func (d *Decoder) Decode(buf []byte) (*Record, error) {
	c := &cursor{buf: buf}

	err := readRiffHeader(c)
	if err != nil {
		return nil, err
	}

	f, err := readFmtChunk(c)
	if err != nil {
		return nil, err
	}

	if d.StrictBitDepth && f.BitsPerSample != BitsPerSample {
		return nil, fmt.Errorf("%w: %d bits per sample, want %d", ErrUnsupportedBitDepth, f.BitsPerSample, BitsPerSample)
	}

	err = seekDataChunk(c)
	if err != nil {
		return nil, err
	}

	data, err := d.readDataChunk(c, f)
	if err != nil {
		return nil, err
	}

	return &Record{
		NumChans:   f.NumChannels,
		SampleRate: f.SampleRate,
		Data:       data,
	}, nil
}

// readRiffHeader consumes "RIFF", the unchecked RIFF size and "WAVE".
func readRiffHeader(c *cursor) error {
	err := c.expect(CIDRiff, ErrNotRiff)
	if err != nil {
		return err
	}

	// the RIFF size is not checked against the buffer length
	_, err = c.uint32()
	if err != nil {
		return fmt.Errorf("failed to read RIFF size: %w", err)
	}

	return c.expect(CIDWave, ErrNotWave)
}

// seekDataChunk skips chunks until the cursor sits just past a "data" ID.
// Skipped chunks advance by their declared size only, with no pad byte.
func seekDataChunk(c *cursor) error {
	for !c.done() {
		id, err := c.id()
		if err != nil {
			return fmt.Errorf("failed to read chunk ID: %w", err)
		}

		if id == CIDData {
			return nil
		}

		size, err := c.uint32()
		if err != nil {
			return fmt.Errorf("failed to read %q chunk size: %w", id[:], err)
		}

		c.skip(size)
	}

	return ErrDataChunkNotFound
}

func (d *Decoder) readDataChunk(c *cursor, f fmtChunk) ([][]int16, error) {
	size, err := c.uint32()
	if err != nil {
		return nil, fmt.Errorf("failed to read data chunk size: %w", err)
	}

	layout, err := layoutFor(int(f.NumChannels))
	if err != nil {
		return nil, err
	}

	var frames int

	switch d.DataBound {
	case DataBoundLength:
		frames = int(size / uint32(layout.BlockAlign()))
		if need := frames * layout.BlockAlign(); c.remaining() < need {
			return nil, fmt.Errorf("%w: data chunk declares %d bytes at offset %d, have %d",
				ErrUnexpectedEOF, need, c.off, c.remaining())
		}
	case DataBoundOffset:
		// a frame is read whenever the offset is below the bound, even if the
		// frame crosses it
		if bound := int64(size); bound > int64(c.off) {
			frames = int((bound - int64(c.off) + int64(layout.BlockAlign()) - 1) / int64(layout.BlockAlign()))
		}
	default:
		return nil, fmt.Errorf("unknown data bound %v", d.DataBound)
	}

	switch layout {
	case Mono:
		return readMonoFrames(c, frames)
	case Stereo:
		return readStereoFrames(c, frames)
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedChannelCount, layout)
	}
}

func readMonoFrames(c *cursor, frames int) ([][]int16, error) {
	samples := make([]int16, 0, min(frames, c.remaining()/bytesPerSample))

	for f := 0; f < frames; f++ {
		v, err := c.int16()
		if err != nil {
			return nil, fmt.Errorf("failed to read sample %d: %w", len(samples), err)
		}

		samples = append(samples, v)
	}

	return [][]int16{samples}, nil
}

func readStereoFrames(c *cursor, frames int) ([][]int16, error) {
	capacity := min(frames, c.remaining()/Stereo.BlockAlign())
	left := make([]int16, 0, capacity)
	right := make([]int16, 0, capacity)

	for f := 0; f < frames; f++ {
		l, err := c.int16()
		if err != nil {
			return nil, fmt.Errorf("failed to read left sample of frame %d: %w", len(left), err)
		}

		r, err := c.int16()
		if err != nil {
			return nil, fmt.Errorf("failed to read right sample of frame %d: %w", len(left), err)
		}

		left = append(left, l)
		right = append(right, r)
	}

	return [][]int16{left, right}, nil
}
