package onda

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-audio/riff"
)

// ChunkInfo describes one chunk of a RIFF/WAVE file.
type ChunkInfo struct {
	ID [4]byte
	// Size is the declared payload size, excluding the pad byte of odd sized
	// chunks.
	Size uint32
	// Offset is the position of the chunk ID from the start of the file.
	Offset int64
	// Order is the index of the chunk inside the RIFF form.
	Order int
}

func (c ChunkInfo) String() string {
	return fmt.Sprintf("%q size=%d offset=%d", c.ID[:], c.Size, c.Offset)
}

// Inventory is the chunk layout of a RIFF/WAVE file.
type Inventory struct {
	// Size is the RIFF size field as stored in the file.
	Size   uint32
	Form   [4]byte
	Chunks []ChunkInfo
}

// Find returns the first chunk with the given ID.
func (inv *Inventory) Find(id [4]byte) (ChunkInfo, bool) {
	if inv == nil {
		return ChunkInfo{}, false
	}

	for _, ch := range inv.Chunks {
		if ch.ID == id {
			return ch, true
		}
	}

	return ChunkInfo{}, false
}

// IDs returns the chunk IDs in file order.
func (inv *Inventory) IDs() []string {
	if inv == nil {
		return nil
	}

	out := make([]string, 0, len(inv.Chunks))
	for _, ch := range inv.Chunks {
		out = append(out, string(ch.ID[:]))
	}

	return out
}

// Inspect lists the chunks of a RIFF/WAVE stream without decoding audio.
// Unlike Decode it honours RIFF word alignment and accepts any chunk order.
func Inspect(r io.Reader) (*Inventory, error) {
	parser := riff.New(r)

	id, size, err := parser.IDnSize()
	if err != nil {
		return nil, fmt.Errorf("failed to read RIFF header: %w", truncated(err))
	}

	if id != CIDRiff {
		return nil, fmt.Errorf("%w: got %q", ErrNotRiff, id[:])
	}

	inv := &Inventory{Size: size}

	err = binary.Read(r, binary.BigEndian, &inv.Form)
	if err != nil {
		return nil, fmt.Errorf("failed to read form type: %w", truncated(err))
	}

	if inv.Form != CIDWave {
		return nil, fmt.Errorf("%w: got %q", ErrNotWave, inv.Form[:])
	}

	offset := int64(12)

	for {
		id, size, err := parser.IDnSize()
		if errors.Is(err, io.EOF) {
			return inv, nil
		}

		if err != nil {
			return nil, fmt.Errorf("failed to read chunk header at offset %d: %w", offset, truncated(err))
		}

		inv.Chunks = append(inv.Chunks, ChunkInfo{
			ID:     id,
			Size:   size,
			Offset: offset,
			Order:  len(inv.Chunks),
		})

		n, err := io.CopyN(io.Discard, r, int64(size))
		if err != nil {
			return nil, fmt.Errorf("%w: chunk %q declares %d bytes, have %d", ErrUnexpectedEOF, id[:], size, n)
		}

		offset += 8 + int64(size)

		// all RIFF chunks must be word aligned; a missing final pad byte is
		// tolerated.
		if size%2 == 1 {
			n, err := io.CopyN(io.Discard, r, 1)
			if n == 0 && errors.Is(err, io.EOF) {
				return inv, nil
			}

			offset++
		}
	}
}

// InspectFile lists the chunks of the file at path.
func InspectFile(path string) (*Inventory, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	inv, err := Inspect(f)
	if err != nil {
		return nil, fmt.Errorf("failed to inspect %s: %w", path, err)
	}

	return inv, nil
}

func truncated(err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%w: %v", ErrUnexpectedEOF, err)
	}

	return err
}
