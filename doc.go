// Package onda reads and writes 16-bit PCM audio stored in RIFF/WAVE files.
//
// The package handles the canonical subset of the format: a RIFF/WAVE header,
// a 16 byte PCM fmt chunk and a data chunk holding one (mono) or two (stereo)
// channels of little-endian signed 16-bit samples. Unknown chunks between the
// fmt and data chunks are skipped.
//
// Decoding turns a byte buffer into a Record and never panics on truncated
// input:
//
//	rec, err := onda.DecodeFile("in.wav")
//	if errors.Is(err, onda.ErrNotPCM) {
//		// compressed or float file
//	}
//
// Encoding is the mirror operation:
//
//	buf, err := onda.Encode([][]int16{left, right}, 44100)
//
// Record converts to and from github.com/go-audio/audio buffers so decoded
// audio can be handed to other go-audio packages.
package onda
