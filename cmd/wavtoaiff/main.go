// This tool converts a 16-bit PCM wav file into an identical aiff file and
// stores it in the same folder as the source.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/cdmiguel/onda"
	"github.com/go-audio/aiff"
)

func main() {
	err := run(os.Args[1:])
	if err != nil {
		log.Fatal(err)
	}
}

var errMissingPath = errors.New("you must set the -path flag")

func run(args []string) error {
	flagSet := flag.NewFlagSet("wavtoaiff", flag.ContinueOnError)

	sourcePath := flagSet.String("path", "", "the path to the wav file to convert to aiff")
	outPath := flagSet.String("output", "", "destination path, defaults to the source path with an .aif extension")

	err := flagSet.Parse(args)
	if err != nil {
		return err
	}

	if *sourcePath == "" {
		return errMissingPath
	}

	src, err := expandHome(*sourcePath)
	if err != nil {
		return err
	}

	dst := *outPath
	if dst == "" {
		dst = strings.TrimSuffix(src, filepath.Ext(src)) + ".aif"
	}

	rec, err := onda.DecodeFile(src)
	if err != nil {
		return err
	}

	err = writeAiff(dst, rec)
	if err != nil {
		return err
	}

	log.Printf("wav file converted to %s", dst)

	return nil
}

func writeAiff(path string, rec *onda.Record) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer out.Close()

	encoder := aiff.NewEncoder(out, int(rec.SampleRate), onda.BitsPerSample, int(rec.NumChans))

	err = encoder.Write(rec.IntBuffer())
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}

	err = encoder.Close()
	if err != nil {
		return fmt.Errorf("failed to finalize %s: %w", path, err)
	}

	return out.Close()
}

func expandHome(path string) (string, error) {
	if !strings.HasPrefix(path, "~/") {
		return path, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get the user home directory: %w", err)
	}

	return filepath.Join(home, path[2:]), nil
}
