package onda

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"testing"
)

type testChunk struct {
	id   string
	size uint32
	data []byte
}

// testFmt describes the fields of a fmt chunk payload.
type testFmt struct {
	formatTag     uint16
	numChans      uint16
	sampleRate    uint32
	byteRate      uint32
	blockAlign    uint16
	bitsPerSample uint16
}

// pcmFmt returns a consistent 16-bit PCM fmt description.
func pcmFmt(numChans uint16, sampleRate uint32) testFmt {
	return testFmt{
		formatTag:     wavFormatPCM,
		numChans:      numChans,
		sampleRate:    sampleRate,
		byteRate:      sampleRate * uint32(numChans) * 2,
		blockAlign:    numChans * 2,
		bitsPerSample: 16,
	}
}

func (f testFmt) payload() []byte {
	b := make([]byte, 16)
	binary.LittleEndian.PutUint16(b[0:2], f.formatTag)
	binary.LittleEndian.PutUint16(b[2:4], f.numChans)
	binary.LittleEndian.PutUint32(b[4:8], f.sampleRate)
	binary.LittleEndian.PutUint32(b[8:12], f.byteRate)
	binary.LittleEndian.PutUint16(b[12:14], f.blockAlign)
	binary.LittleEndian.PutUint16(b[14:16], f.bitsPerSample)

	return b
}

func samplesPayload(samples ...int16) []byte {
	var b bytes.Buffer
	binary.Write(&b, binary.LittleEndian, samples)

	return b.Bytes()
}

// makeWav assembles a RIFF/WAVE file from raw chunks and fixes up the RIFF
// size. Chunks are written without pad bytes so tests control the layout.
func makeWav(t *testing.T, chunks ...testChunk) []byte {
	t.Helper()

	var b bytes.Buffer
	b.WriteString("RIFF")

	err := binary.Write(&b, binary.LittleEndian, uint32(0))
	if err != nil {
		t.Fatalf("write riff size placeholder: %v", err)
	}

	b.WriteString("WAVE")

	for _, ch := range chunks {
		writeTestChunk(t, &b, ch.id, ch.size, ch.data)
	}

	out := b.Bytes()
	binary.LittleEndian.PutUint32(out[4:8], uint32(len(out)-8))

	return out
}

// chunk builds a testChunk whose declared size matches its payload.
func chunk(id string, data []byte) testChunk {
	return testChunk{id: id, size: uint32(len(data)), data: data}
}

func writeTestChunk(t *testing.T, b *bytes.Buffer, id string, size uint32, payload []byte) {
	t.Helper()

	if len(id) != 4 {
		t.Fatalf("chunk id must be 4 bytes, got %q", id)
	}

	b.WriteString(id)

	err := binary.Write(b, binary.LittleEndian, size)
	if err != nil {
		t.Fatalf("write chunk size for %q: %v", id, err)
	}

	if _, err := b.Write(payload); err != nil {
		t.Fatalf("write chunk payload for %q: %v", id, err)
	}
}

var (
	errFileTooSmall         = errors.New("file too small")
	errInvalidRiffWaveHdr   = errors.New("invalid riff/wave header")
	errChunkExceedsFileSize = errors.New("chunk exceeds file size")
)

// parseWavChunks is an independent chunk walker used to check encoder output.
func parseWavChunks(data []byte) ([]testChunk, error) {
	if len(data) < 12 {
		return nil, errFileTooSmall
	}

	if string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return nil, errInvalidRiffWaveHdr
	}

	chunks := make([]testChunk, 0)

	offset := 12
	for offset+8 <= len(data) {
		id := string(data[offset : offset+4])
		size := binary.LittleEndian.Uint32(data[offset+4 : offset+8])
		offset += 8

		end := offset + int(size)
		if end > len(data) {
			return nil, fmt.Errorf("%w: %q", errChunkExceedsFileSize, id)
		}

		payload := append([]byte(nil), data[offset:end]...)
		chunks = append(chunks, testChunk{id: id, size: size, data: payload})

		offset = end
		if size%2 == 1 {
			offset++
		}
	}

	return chunks, nil
}

func findChunk(chunks []testChunk, id string) (*testChunk, int) {
	for i := range chunks {
		if chunks[i].id == id {
			return &chunks[i], i
		}
	}

	return nil, -1
}

func assertSamplesEqual(t *testing.T, got, want [][]int16) {
	t.Helper()

	if len(got) != len(want) {
		t.Fatalf("channel count=%d, want %d", len(got), len(want))
	}

	for ch := range want {
		if len(got[ch]) != len(want[ch]) {
			t.Fatalf("channel %d length=%d, want %d", ch, len(got[ch]), len(want[ch]))
		}

		for i := range want[ch] {
			if got[ch][i] != want[ch][i] {
				t.Fatalf("channel %d sample %d=%d, want %d", ch, i, got[ch][i], want[ch][i])
			}
		}
	}
}
