package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/cdmiguel/onda"
)

func TestRunGeneratesWavFile(t *testing.T) {
	outPath := filepath.Join(t.TempDir(), "sine.wav")

	err := run([]string{"-output", outPath, "-length", "0.01", "-frequency", "220"})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	fi, err := os.Stat(outPath)
	if err != nil {
		t.Fatalf("output file missing: %v", err)
	}

	// 0.01 sec * 48000 Hz = 480 samples
	if fi.Size() != onda.HeaderSize+480*2 {
		t.Fatalf("unexpected wav file size: %d", fi.Size())
	}

	rec, err := onda.DecodeFile(outPath)
	if err != nil {
		t.Fatalf("generated file is not a valid wav: %v", err)
	}

	if rec.SampleRate != 48000 {
		t.Fatalf("sample rate=%d, want 48000", rec.SampleRate)
	}

	if rec.NumChans != 1 {
		t.Fatalf("channels=%d, want 1", rec.NumChans)
	}

	if rec.Data[0][0] != 0 {
		t.Fatalf("first sample=%d, want 0", rec.Data[0][0])
	}
}

func TestRunStereo(t *testing.T) {
	outPath := filepath.Join(t.TempDir(), "stereo.wav")

	err := run([]string{"-output", outPath, "-length", "0.005", "-rate", "8000", "-channels", "2"})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	rec, err := onda.DecodeFile(outPath)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}

	// 0.005 sec * 8000 Hz = 40 frames
	if rec.NumChans != 2 || rec.NumFrames() != 40 {
		t.Fatalf("decoded %d channels with %d frames", rec.NumChans, rec.NumFrames())
	}

	for i := range rec.Data[0] {
		if rec.Data[0][i] != rec.Data[1][i] {
			t.Fatalf("frame %d differs between channels", i)
		}
	}
}

func TestSinePeak(t *testing.T) {
	// 4 samples per period put the peaks exactly on samples 1 and 3
	got := sine(1, 4, 4)

	want := []int16{0, 32767, 0, -32767}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("sample %d=%d, want %d", i, got[i], want[i])
		}
	}
}

func TestRunFlagParseError(t *testing.T) {
	err := run([]string{"-length", "not-a-number"})
	if err == nil {
		t.Fatalf("expected failure for invalid flag value")
	}
}

func TestRunInvalidParams(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		args    []string
		wantErr error
	}{
		{"three channels", []string{"-channels", "3"}, onda.ErrUnsupportedChannelCount},
		{"negative length", []string{"-length", "-1"}, errInvalidLength},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"-output", filepath.Join(dir, "x.wav"), "-length", "0.001"}, tt.args...)

			err := run(args)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err=%v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestRunInvalidOutputPath(t *testing.T) {
	err := run([]string{"-output", "/nonexistent/dir/file.wav", "-length", "0.001"})
	if err == nil {
		t.Fatal("expected error for invalid output path")
	}
}
