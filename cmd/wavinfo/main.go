// This tool prints the format and chunk layout of the passed wav file.
package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/cdmiguel/onda"
)

const missingPathMessage = "You must pass the path of the file to inspect"

func main() {
	err := run(os.Args[1:], os.Stdout)
	if err == nil {
		return
	}

	if errors.Is(err, errMissingPath) {
		fmt.Println(missingPathMessage)
		os.Exit(1)
	}

	log.Fatal(err)
}

var errMissingPath = errors.New("missing path argument")

func run(args []string, out io.Writer) error {
	if len(args) < 1 {
		return errMissingPath
	}

	inv, err := onda.InspectFile(args[0])
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "RIFF size: %d\n", inv.Size)
	fmt.Fprintln(out, "Chunks:")

	for _, ch := range inv.Chunks {
		fmt.Fprintf(out, "\t[%d] %s\n", ch.Order, ch)
	}

	rec, err := onda.DecodeFile(args[0])
	if err != nil {
		return err
	}

	layout, err := rec.Layout()
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Channels: %d (%s)\n", rec.NumChans, layout)
	fmt.Fprintf(out, "Sample rate: %d\n", rec.SampleRate)
	fmt.Fprintf(out, "Frames: %d\n", rec.NumFrames())
	fmt.Fprintf(out, "Duration: %s\n", rec.Duration())

	return nil
}
