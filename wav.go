package onda

import (
	"errors"
	"fmt"

	"github.com/go-audio/riff"
)

const (
	wavFormatPCM = 1
	// BitsPerSample is the only sample width supported by the package.
	BitsPerSample  = 16
	bytesPerSample = BitsPerSample / 8
	fmtChunkSize   = 16
	// HeaderSize is the size of the RIFF, fmt and data chunk headers written by
	// the encoder.
	HeaderSize = 44
	// riffHeaderOverhead is what the RIFF size field counts besides the payload:
	// "WAVE" plus the fmt chunk and the data chunk header.
	riffHeaderOverhead = HeaderSize - 8
)

var (
	// CIDRiff is the chunk ID of the outer RIFF chunk.
	CIDRiff = riff.RiffID
	// CIDWave is the RIFF form type of a WAVE file.
	CIDWave = riff.WavFormatID
	// CIDFmt is the chunk ID of the fmt chunk.
	CIDFmt = riff.FmtID
	// CIDData is the chunk ID of the data chunk.
	CIDData = riff.DataFormatID
	// CIDList is the chunk ID of a LIST chunk.
	CIDList = [4]byte{'L', 'I', 'S', 'T'}

	// ErrUnsupportedChannelCount is returned when a file or an encode request
	// has a channel count other than 1 or 2.
	ErrUnsupportedChannelCount = errors.New("unsupported number of channels")
)

// Layout is the channel arrangement of a Record. Only Mono and Stereo exist.
type Layout uint16

const (
	// Mono is a single channel.
	Mono Layout = 1
	// Stereo is two channels stored as interleaved left/right frames.
	Stereo Layout = 2
)

func layoutFor(numChans int) (Layout, error) {
	switch numChans {
	case 1:
		return Mono, nil
	case 2:
		return Stereo, nil
	default:
		return 0, fmt.Errorf("%w: %d (want 1 or 2)", ErrUnsupportedChannelCount, numChans)
	}
}

// NumChans returns the number of channels of the layout.
func (l Layout) NumChans() int {
	return int(l)
}

// BlockAlign returns the size in bytes of one frame.
func (l Layout) BlockAlign() int {
	return int(l) * bytesPerSample
}

func (l Layout) String() string {
	switch l {
	case Mono:
		return "mono"
	case Stereo:
		return "stereo"
	default:
		return fmt.Sprintf("Layout(%d)", uint16(l))
	}
}
