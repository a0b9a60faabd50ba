package onda

import (
	"errors"
	"fmt"
)

var (
	// ErrFormatChunkMissing is returned when the chunk after the RIFF header is
	// not a fmt chunk.
	ErrFormatChunkMissing = errors.New("fmt chunk not found")
	// ErrFormatChunkWrongSize is returned for fmt chunks that are not the
	// 16 byte PCM variant. Extended fmt chunks are rejected, not skipped.
	ErrFormatChunkWrongSize = errors.New("fmt chunk wrong size")
	// ErrNotPCM is returned when the fmt chunk declares a format other than
	// linear PCM.
	ErrNotPCM = errors.New("not a PCM file")
	// ErrInconsistentFormatChunk is returned when the byte rate or block align
	// does not match the channel count, sample rate and bit depth.
	ErrInconsistentFormatChunk = errors.New("inconsistent fmt chunk")
	// ErrUnsupportedBitDepth is returned by a strict Decoder when bits per
	// sample is not 16.
	ErrUnsupportedBitDepth = errors.New("unsupported bit depth")
)

// fmtChunk is the PCM fmt chunk. It lives only for the duration of a decode or
// encode call.
type fmtChunk struct {
	FormatTag      uint16
	NumChannels    uint16
	SampleRate     uint32
	AvgBytesPerSec uint32
	BlockAlign     uint16
	BitsPerSample  uint16
}

func newFmtChunk(layout Layout, sampleRate uint32) fmtChunk {
	blockAlign := uint16(layout.BlockAlign())

	return fmtChunk{
		FormatTag:      wavFormatPCM,
		NumChannels:    uint16(layout),
		SampleRate:     sampleRate,
		AvgBytesPerSec: sampleRate * uint32(blockAlign),
		BlockAlign:     blockAlign,
		BitsPerSample:  BitsPerSample,
	}
}

// readFmtChunk parses the fmt chunk at the cursor, including its ID and size.
func readFmtChunk(c *cursor) (fmtChunk, error) {
	var f fmtChunk

	err := c.expect(CIDFmt, ErrFormatChunkMissing)
	if err != nil {
		return f, err
	}

	size, err := c.uint32()
	if err != nil {
		return f, fmt.Errorf("failed to read fmt chunk size: %w", err)
	}

	if size != fmtChunkSize {
		return f, fmt.Errorf("%w: %d bytes, want %d", ErrFormatChunkWrongSize, size, fmtChunkSize)
	}

	if f.FormatTag, err = c.uint16(); err != nil {
		return f, fmt.Errorf("failed to read wav format: %w", err)
	}

	if f.FormatTag != wavFormatPCM {
		return f, fmt.Errorf("%w: format tag %d", ErrNotPCM, f.FormatTag)
	}

	if f.NumChannels, err = c.uint16(); err != nil {
		return f, fmt.Errorf("failed to read channels: %w", err)
	}

	if f.SampleRate, err = c.uint32(); err != nil {
		return f, fmt.Errorf("failed to read sample rate: %w", err)
	}

	if f.AvgBytesPerSec, err = c.uint32(); err != nil {
		return f, fmt.Errorf("failed to read avg bytes/sec: %w", err)
	}

	if f.BlockAlign, err = c.uint16(); err != nil {
		return f, fmt.Errorf("failed to read block align: %w", err)
	}

	if f.BitsPerSample, err = c.uint16(); err != nil {
		return f, fmt.Errorf("failed to read bit depth: %w", err)
	}

	return f, f.validate()
}

// validate cross-checks the derived fields. Products are computed in 64 bits
// so hostile headers cannot wrap around.
func (f fmtChunk) validate() error {
	byteRate := uint64(f.SampleRate) * uint64(f.NumChannels) * uint64(f.BitsPerSample) / 8
	if uint64(f.AvgBytesPerSec) != byteRate {
		return fmt.Errorf("%w: byte rate %d does not match %d Hz * %d channels * %d bits / 8 = %d",
			ErrInconsistentFormatChunk, f.AvgBytesPerSec, f.SampleRate, f.NumChannels, f.BitsPerSample, byteRate)
	}

	blockAlign := uint32(f.NumChannels) * uint32(f.BitsPerSample) / 8
	if uint32(f.BlockAlign) != blockAlign {
		return fmt.Errorf("%w: block align %d does not match %d channels * %d bits / 8 = %d",
			ErrInconsistentFormatChunk, f.BlockAlign, f.NumChannels, f.BitsPerSample, blockAlign)
	}

	return nil
}
