// This tool converts an mp3 or ogg vorbis file into a 16-bit PCM wav file and
// stores it in the same folder as the source.
package main

import (
	"encoding/binary"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/cdmiguel/onda"
	"github.com/go-audio/audio"
	gomp3 "github.com/hajimehoshi/go-mp3"
	"github.com/jfreymuth/oggvorbis"
)

func main() {
	err := run(os.Args[1:])
	if err != nil {
		log.Fatal(err)
	}
}

var (
	errMissingPath       = errors.New("you must set the -path flag")
	errUnsupportedFormat = errors.New("unsupported input format")
)

// mp3Reader is the part of gomp3.Decoder the converter needs.
type mp3Reader interface {
	Read([]byte) (int, error)
	SampleRate() int
}

// vorbisReader is the part of oggvorbis.Reader the converter needs.
type vorbisReader interface {
	Read([]float32) (int, error)
	SampleRate() int
	Channels() int
}

func run(args []string) error {
	flagSet := flag.NewFlagSet("towav", flag.ContinueOnError)

	sourcePath := flagSet.String("path", "", "the path to the mp3 or ogg file to convert")
	outPath := flagSet.String("output", "", "destination path, defaults to the source path with a .wav extension")

	err := flagSet.Parse(args)
	if err != nil {
		return err
	}

	if *sourcePath == "" {
		return errMissingPath
	}

	dst := *outPath
	if dst == "" {
		dst = strings.TrimSuffix(*sourcePath, filepath.Ext(*sourcePath)) + ".wav"
	}

	in, err := os.Open(*sourcePath)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", *sourcePath, err)
	}
	defer in.Close()

	rec, err := decode(in, filepath.Ext(*sourcePath))
	if err != nil {
		return fmt.Errorf("failed to decode %s: %w", *sourcePath, err)
	}

	err = onda.EncodeFile(rec.Data, rec.SampleRate, dst)
	if err != nil {
		return err
	}

	log.Printf("converted %s to %s (%d channels, %d Hz, %s)", *sourcePath, dst, rec.NumChans, rec.SampleRate, rec.Duration())

	return nil
}

func decode(r io.Reader, ext string) (*onda.Record, error) {
	switch strings.ToLower(ext) {
	case ".mp3":
		dec, err := gomp3.NewDecoder(r)
		if err != nil {
			return nil, err
		}

		return readMP3(dec)
	case ".ogg", ".oga":
		dec, err := oggvorbis.NewReader(r)
		if err != nil {
			return nil, err
		}

		return readVorbis(dec)
	default:
		return nil, fmt.Errorf("%w: %q", errUnsupportedFormat, ext)
	}
}

// readMP3 collects the decoder output, which is always 16-bit little-endian
// stereo.
func readMP3(dec mp3Reader) (*onda.Record, error) {
	raw, err := io.ReadAll(dec)
	if err != nil {
		return nil, err
	}

	samples := make([]int, len(raw)/2)
	for i := range samples {
		samples[i] = int(int16(binary.LittleEndian.Uint16(raw[2*i:])))
	}

	return onda.RecordFromIntBuffer(&audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 2, SampleRate: dec.SampleRate()},
		Data:           samples,
		SourceBitDepth: onda.BitsPerSample,
	})
}

func readVorbis(dec vorbisReader) (*onda.Record, error) {
	if n := dec.Channels(); n < 1 || n > 2 {
		return nil, fmt.Errorf("%w: vorbis stream has %d channels", onda.ErrUnsupportedChannelCount, n)
	}

	var samples []float32

	buf := make([]float32, 4096*dec.Channels())

	for {
		n, err := dec.Read(buf)
		samples = append(samples, buf[:n]...)

		if errors.Is(err, io.EOF) || (n == 0 && err == nil) {
			break
		}

		if err != nil {
			return nil, err
		}
	}

	return onda.RecordFromFloat32Buffer(&audio.Float32Buffer{
		Format: &audio.Format{NumChannels: dec.Channels(), SampleRate: dec.SampleRate()},
		Data:   samples,
	})
}
