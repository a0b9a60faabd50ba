package onda

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/go-audio/audio"
)

var (
	// ErrNilRecord is returned when a nil record or buffer is passed in.
	ErrNilRecord = errors.New("nil record")
	// ErrChannelLengthMismatch is returned when the channels of a stereo
	// record do not hold the same number of samples.
	ErrChannelLengthMismatch = errors.New("channel lengths differ")
)

// Record is decoded PCM audio: one slice of 16-bit samples per channel.
type Record struct {
	// NumChans is 1 or 2 and always equals len(Data) for decoded records.
	NumChans   uint16
	SampleRate uint32
	Data       [][]int16
}

// Layout returns the channel layout of the record.
func (r *Record) Layout() (Layout, error) {
	if r == nil {
		return 0, ErrNilRecord
	}

	layout, err := layoutFor(int(r.NumChans))
	if err != nil {
		return 0, err
	}

	if len(r.Data) != layout.NumChans() {
		return 0, fmt.Errorf("%w: record declares %d channels but holds %d", ErrUnsupportedChannelCount, r.NumChans, len(r.Data))
	}

	return layout, nil
}

// NumFrames returns the number of samples per channel.
func (r *Record) NumFrames() int {
	if r == nil || len(r.Data) == 0 {
		return 0
	}

	return len(r.Data[0])
}

// completeFrames is the number of frames for which every channel has a sample.
func (r *Record) completeFrames() int {
	if len(r.Data) == 0 {
		return 0
	}

	n := len(r.Data[0])
	for _, ch := range r.Data[1:] {
		n = min(n, len(ch))
	}

	return n
}

// Duration returns the playing time of the record.
func (r *Record) Duration() time.Duration {
	if r == nil || r.SampleRate == 0 {
		return 0
	}

	frames := int64(r.NumFrames())
	rate := int64(r.SampleRate)

	return time.Duration(frames/rate)*time.Second + time.Duration(frames%rate)*time.Second/time.Duration(rate)
}

// Clone returns a deep copy of the record.
func (r *Record) Clone() *Record {
	if r == nil {
		return nil
	}

	out := *r
	out.Data = make([][]int16, len(r.Data))

	for i := range r.Data {
		out.Data[i] = append([]int16{}, r.Data[i]...)
	}

	return &out
}

// Encode serializes the record as a WAV file.
func (r *Record) Encode() ([]byte, error) {
	if r == nil {
		return nil, ErrNilRecord
	}

	if _, err := r.Layout(); err != nil {
		return nil, err
	}

	return Encode(r.Data, r.SampleRate)
}

// Format returns the go-audio format of the record.
func (r *Record) Format() *audio.Format {
	if r == nil {
		return nil
	}

	return &audio.Format{
		NumChannels: int(r.NumChans),
		SampleRate:  int(r.SampleRate),
	}
}

// IntBuffer returns the samples interleaved in a go-audio IntBuffer.
func (r *Record) IntBuffer() *audio.IntBuffer {
	if r == nil {
		return nil
	}

	buf := &audio.IntBuffer{
		Format:         r.Format(),
		Data:           make([]int, 0, r.NumFrames()*len(r.Data)),
		SourceBitDepth: BitsPerSample,
	}

	for i, n := 0, r.completeFrames(); i < n; i++ {
		for _, ch := range r.Data {
			buf.Data = append(buf.Data, int(ch[i]))
		}
	}

	return buf
}

// Float32Buffer returns the samples interleaved and normalized to [-1, 1).
func (r *Record) Float32Buffer() *audio.Float32Buffer {
	if r == nil {
		return nil
	}

	buf := &audio.Float32Buffer{
		Format:         r.Format(),
		Data:           make([]float32, 0, r.NumFrames()*len(r.Data)),
		SourceBitDepth: BitsPerSample,
	}

	for i, n := 0, r.completeFrames(); i < n; i++ {
		for _, ch := range r.Data {
			buf.Data = append(buf.Data, normalizePCMInt16(ch[i]))
		}
	}

	return buf
}

// RecordFromIntBuffer de-interleaves a go-audio IntBuffer. Values outside the
// int16 range are clamped and a trailing partial frame is dropped.
func RecordFromIntBuffer(buf *audio.IntBuffer) (*Record, error) {
	if buf == nil || buf.Format == nil {
		return nil, ErrNilRecord
	}

	rec, err := newRecordForFormat(buf.Format, len(buf.Data))
	if err != nil {
		return nil, err
	}

	numChans := len(rec.Data)
	for i := 0; i+numChans <= len(buf.Data); i += numChans {
		for ch := range rec.Data {
			rec.Data[ch] = append(rec.Data[ch], clampInt16(buf.Data[i+ch]))
		}
	}

	return rec, nil
}

// RecordFromFloat32Buffer de-interleaves a go-audio Float32Buffer holding
// samples in [-1, 1]. Values outside that range are clamped and a trailing
// partial frame is dropped.
func RecordFromFloat32Buffer(buf *audio.Float32Buffer) (*Record, error) {
	if buf == nil || buf.Format == nil {
		return nil, ErrNilRecord
	}

	rec, err := newRecordForFormat(buf.Format, len(buf.Data))
	if err != nil {
		return nil, err
	}

	numChans := len(rec.Data)
	for i := 0; i+numChans <= len(buf.Data); i += numChans {
		for ch := range rec.Data {
			rec.Data[ch] = append(rec.Data[ch], float32ToPCMInt16(buf.Data[i+ch]))
		}
	}

	return rec, nil
}

func newRecordForFormat(format *audio.Format, numSamples int) (*Record, error) {
	layout, err := layoutFor(format.NumChannels)
	if err != nil {
		return nil, err
	}

	if format.SampleRate < 0 || int64(format.SampleRate) > math.MaxUint32 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSampleRate, format.SampleRate)
	}

	frames := numSamples / layout.NumChans()
	rec := &Record{
		NumChans:   uint16(layout),
		SampleRate: uint32(format.SampleRate),
		Data:       make([][]int16, layout.NumChans()),
	}

	for i := range rec.Data {
		rec.Data[i] = make([]int16, 0, frames)
	}

	return rec, nil
}
