package onda

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
)

var (
	// ErrDataTooLarge is returned when the encoded file would not fit the
	// 32-bit RIFF size field.
	ErrDataTooLarge = errors.New("audio data too large for a wav file")
	// ErrInvalidSampleRate is returned when the sample rate cannot be
	// represented in the fmt chunk.
	ErrInvalidSampleRate = errors.New("invalid sample rate")
	errNilWriter         = errors.New("can't write to a nil writer")
)

// Encoder writes 16-bit PCM WAV files to an io.Writer. Each call to Encode
// produces one complete file and hands it to the writer in a single Write.
type Encoder struct {
	w   io.Writer
	buf *bytes.Buffer

	// WrittenBytes counts the bytes handed to the writer.
	WrittenBytes int
}

// NewEncoder creates an encoder writing to w.
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{
		w:   w,
		buf: &bytes.Buffer{},
	}
}

// Encode returns the WAV file holding channels at sampleRate. channels must
// hold one (mono) or two (stereo) slices; stereo slices must have equal
// lengths.
func Encode(channels [][]int16, sampleRate uint32) ([]byte, error) {
	var out bytes.Buffer

	err := NewEncoder(&out).Encode(channels, sampleRate)
	if err != nil {
		return nil, err
	}

	return out.Bytes(), nil
}

// EncodeFile encodes channels and stores the result at path. The file is
// written next to path under a temporary name and renamed into place once
// complete, so a failure never leaves a partial file at path.
func EncodeFile(channels [][]int16, sampleRate uint32, path string) error {
	data, err := Encode(channels, sampleRate)
	if err != nil {
		return err
	}

	return writeFileAtomic(path, data)
}

// Encode validates channels and writes a complete WAV file. Nothing is
// written when validation fails.
func (e *Encoder) Encode(channels [][]int16, sampleRate uint32) error {
	if e == nil || e.w == nil {
		return errNilWriter
	}

	layout, dataSize, err := checkEncodeInput(channels, sampleRate)
	if err != nil {
		return err
	}

	e.buf.Reset()
	e.buf.Grow(HeaderSize + int(dataSize))

	err = e.writeRiffChunk(dataSize)
	if err != nil {
		return err
	}

	err = e.writeFmtChunk(newFmtChunk(layout, sampleRate))
	if err != nil {
		return err
	}

	err = e.writeDataChunk(layout, channels, dataSize)
	if err != nil {
		return err
	}

	n, err := e.w.Write(e.buf.Bytes())
	e.WrittenBytes += n

	if err != nil {
		return fmt.Errorf("failed to write wav data: %w", err)
	}

	return nil
}

// AddLE serializes and adds the passed value to the pending file using little
// endian.
func (e *Encoder) AddLE(src any) error {
	err := binary.Write(e.buf, binary.LittleEndian, src)
	if err != nil {
		return fmt.Errorf("failed to write little endian: %w", err)
	}

	return nil
}

func checkEncodeInput(channels [][]int16, sampleRate uint32) (Layout, uint32, error) {
	layout, err := layoutFor(len(channels))
	if err != nil {
		return 0, 0, err
	}

	frames := len(channels[0])
	if layout == Stereo && len(channels[1]) != frames {
		return 0, 0, fmt.Errorf("%w: left has %d samples, right has %d", ErrChannelLengthMismatch, frames, len(channels[1]))
	}

	dataSize := uint64(frames) * uint64(layout.BlockAlign())
	if dataSize+riffHeaderOverhead > math.MaxUint32 {
		return 0, 0, fmt.Errorf("%w: %d bytes of samples", ErrDataTooLarge, dataSize)
	}

	if uint64(sampleRate)*uint64(layout.BlockAlign()) > math.MaxUint32 {
		return 0, 0, fmt.Errorf("%w: %d Hz overflows the %s byte rate", ErrInvalidSampleRate, sampleRate, layout)
	}

	return layout, uint32(dataSize), nil
}

func (e *Encoder) writeRiffChunk(dataSize uint32) error {
	err := e.AddLE(CIDRiff)
	if err != nil {
		return fmt.Errorf("error encoding RIFF ID - %w", err)
	}

	err = e.AddLE(riffHeaderOverhead + dataSize)
	if err != nil {
		return fmt.Errorf("error encoding RIFF size - %w", err)
	}

	err = e.AddLE(CIDWave)
	if err != nil {
		return fmt.Errorf("error encoding WAVE ID - %w", err)
	}

	return nil
}

func (e *Encoder) writeFmtChunk(chunk fmtChunk) error {
	err := e.AddLE(CIDFmt)
	if err != nil {
		return fmt.Errorf("error encoding fmt ID - %w", err)
	}

	err = e.AddLE(uint32(fmtChunkSize))
	if err != nil {
		return fmt.Errorf("error encoding fmt chunk size - %w", err)
	}

	err = e.AddLE(chunk.FormatTag)
	if err != nil {
		return fmt.Errorf("error encoding the format tag - %w", err)
	}

	err = e.AddLE(chunk.NumChannels)
	if err != nil {
		return fmt.Errorf("error encoding the number of channels - %w", err)
	}

	err = e.AddLE(chunk.SampleRate)
	if err != nil {
		return fmt.Errorf("error encoding the sample rate - %w", err)
	}

	err = e.AddLE(chunk.AvgBytesPerSec)
	if err != nil {
		return fmt.Errorf("error encoding the avg bytes per sec - %w", err)
	}

	err = e.AddLE(chunk.BlockAlign)
	if err != nil {
		return fmt.Errorf("error encoding the block align - %w", err)
	}

	err = e.AddLE(chunk.BitsPerSample)
	if err != nil {
		return fmt.Errorf("error encoding bits per sample - %w", err)
	}

	return nil
}

func (e *Encoder) writeDataChunk(layout Layout, channels [][]int16, dataSize uint32) error {
	err := e.AddLE(CIDData)
	if err != nil {
		return fmt.Errorf("error encoding data ID - %w", err)
	}

	err = e.AddLE(dataSize)
	if err != nil {
		return fmt.Errorf("%w when writing wav data chunk size header", err)
	}

	switch layout {
	case Mono:
		err = e.AddLE(channels[0])
	case Stereo:
		err = e.AddLE(interleave(channels[0], channels[1]))
	default:
		err = fmt.Errorf("%w: %v", ErrUnsupportedChannelCount, layout)
	}

	if err != nil {
		return fmt.Errorf("error encoding samples - %w", err)
	}

	return nil
}

func interleave(left, right []int16) []int16 {
	out := make([]int16, 0, len(left)*2)
	for i := range left {
		out = append(out, left[i], right[i])
	}

	return out
}

func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to set mode of %s: %w", path, err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync %s: %w", path, err)
	}

	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to move %s into place: %w", path, err)
	}

	return nil
}
