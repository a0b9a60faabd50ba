// This command line tool validates wav files against the 16-bit PCM mono and
// stereo subset and reports the constraint each rejected file violates.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/cdmiguel/onda"
)

func main() {
	err := run(os.Args[1:], os.Stdout)
	if err != nil {
		log.Fatal(err)
	}
}

var (
	errMissingTarget = errors.New("you need to pass -file or -dir to indicate what to check")
	errChecksFailed  = errors.New("some files failed validation")
)

func run(args []string, out io.Writer) error {
	flagSet := flag.NewFlagSet("wavcheck", flag.ContinueOnError)

	file := flagSet.String("file", "", "path to the wave file to check")
	dir := flagSet.String("dir", "", "directory containing all the wav files to check")
	offsetBound := flagSet.Bool("offset-bound", false, "treat the data chunk size as an absolute offset bound")
	strict := flagSet.Bool("strict", false, "reject files whose fmt chunk does not declare 16 bits per sample")

	err := flagSet.Parse(args)
	if err != nil {
		return err
	}

	if *file == "" && *dir == "" {
		return errMissingTarget
	}

	dec := &onda.Decoder{StrictBitDepth: *strict}
	if *offsetBound {
		dec.DataBound = onda.DataBoundOffset
	}

	var paths []string

	if *file != "" {
		paths = append(paths, *file)
	}

	if *dir != "" {
		found, err := listWavFiles(*dir)
		if err != nil {
			return err
		}

		paths = append(paths, found...)
	}

	var failed int

	for _, path := range paths {
		if !checkFile(out, dec, path) {
			failed++
		}
	}

	if failed > 0 {
		return fmt.Errorf("%w: %d of %d", errChecksFailed, failed, len(paths))
	}

	return nil
}

func listWavFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", dir, err)
	}

	var paths []string

	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".wav") {
			continue
		}

		paths = append(paths, filepath.Join(dir, entry.Name()))
	}

	return paths, nil
}

func checkFile(out io.Writer, dec *onda.Decoder, path string) bool {
	rec, err := dec.DecodeFile(path)
	if err != nil {
		fmt.Fprintf(out, "FAIL %s: %v\n", path, err)
		return false
	}

	layout, err := rec.Layout()
	if err != nil {
		fmt.Fprintf(out, "FAIL %s: %v\n", path, err)
		return false
	}

	fmt.Fprintf(out, "ok   %s: %s, %d Hz, %d frames\n", path, layout, rec.SampleRate, rec.NumFrames())

	return true
}
