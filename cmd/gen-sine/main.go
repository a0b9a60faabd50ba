// This tool writes a 16-bit PCM sine wave to a wav file.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"math"
	"os"

	"github.com/cdmiguel/onda"
)

func main() {
	err := run(os.Args[1:])
	if err != nil {
		log.Fatal(err)
	}
}

var errInvalidLength = errors.New("length must not be negative")

func run(args []string) error {
	flagSet := flag.NewFlagSet("gen-sine", flag.ContinueOnError)

	output := flagSet.String("output", "output.wav", "filename to write to")
	frequency := flagSet.Float64("frequency", 440, "frequency in hertz to generate")
	length := flagSet.Float64("length", 5, "length in seconds of output file")
	rate := flagSet.Uint("rate", 48000, "sample rate in hertz")
	channels := flagSet.Int("channels", 1, "number of channels, 1 or 2")

	err := flagSet.Parse(args)
	if err != nil {
		return err
	}

	if *length < 0 {
		return fmt.Errorf("%w: %f", errInvalidLength, *length)
	}

	if *channels < 1 || *channels > 2 {
		return fmt.Errorf("%w: %d", onda.ErrUnsupportedChannelCount, *channels)
	}

	if *rate > math.MaxUint32 {
		return fmt.Errorf("%w: %d", onda.ErrInvalidSampleRate, *rate)
	}

	log.Printf("generating a %f sec sine wav at %f hz", *length, *frequency)

	data := sine(*frequency, *length, float64(*rate))

	// every channel carries the same signal
	out := make([][]int16, *channels)
	for i := range out {
		out[i] = data
	}

	return onda.EncodeFile(out, uint32(*rate), *output)
}

func sine(frequency, length, sampleRate float64) []int16 {
	numSamples := int(sampleRate * length)
	out := make([]int16, numSamples)

	for i := 0; i < numSamples; i++ {
		fv := math.Sin(float64(i) / sampleRate * frequency * 2 * math.Pi)
		out[i] = int16(math.Round(fv * math.MaxInt16))
	}

	return out
}
