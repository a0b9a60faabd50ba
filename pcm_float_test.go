package onda

import (
	"math"
	"testing"
)

func TestClampFloat32(t *testing.T) {
	tests := []struct {
		name     string
		value    float32
		min, max float32
		want     float32
	}{
		{"below min", -2, -1, 1, -1},
		{"at min", -1, -1, 1, -1},
		{"in range", 0.5, -1, 1, 0.5},
		{"at max", 1, -1, 1, 1},
		{"above max", 2, -1, 1, 1},
		{"zero", 0, -1, 1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := clampFloat32(tt.value, tt.min, tt.max)
			if got != tt.want {
				t.Fatalf("clampFloat32(%f, %f, %f)=%f, want %f", tt.value, tt.min, tt.max, got, tt.want)
			}
		})
	}
}

func TestFloat32ToPCMInt16(t *testing.T) {
	tests := []struct {
		name  string
		value float32
		want  int16
	}{
		{"min", -1, -32768},
		{"below min", -1.5, -32768},
		{"max clamps", 1, 32767},
		{"above max", 3, 32767},
		{"half", 0.5, 16384},
		{"negative half", -0.5, -16384},
		{"zero", 0, 0},
		{"nan", float32(math.NaN()), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := float32ToPCMInt16(tt.value)
			if got != tt.want {
				t.Fatalf("float32ToPCMInt16(%f)=%d, want %d", tt.value, got, tt.want)
			}
		})
	}
}

func TestNormalizePCMInt16(t *testing.T) {
	tests := []struct {
		sample int16
		want   float32
	}{
		{-32768, -1},
		{0, 0},
		{16384, 0.5},
		{32767, 32767.0 / 32768.0},
	}

	for _, tt := range tests {
		if got := normalizePCMInt16(tt.sample); got != tt.want {
			t.Fatalf("normalizePCMInt16(%d)=%f, want %f", tt.sample, got, tt.want)
		}
	}
}

func TestPCMInt16FloatRoundTrip(t *testing.T) {
	for _, s := range []int16{-32768, -12345, -1, 0, 1, 255, 12345, 32767} {
		if got := float32ToPCMInt16(normalizePCMInt16(s)); got != s {
			t.Fatalf("round trip of %d gave %d", s, got)
		}
	}
}

func TestClampInt16(t *testing.T) {
	tests := []struct {
		in   int
		want int16
	}{
		{-100000, -32768},
		{-32768, -32768},
		{0, 0},
		{32767, 32767},
		{40000, 32767},
	}

	for _, tt := range tests {
		if got := clampInt16(tt.in); got != tt.want {
			t.Fatalf("clampInt16(%d)=%d, want %d", tt.in, got, tt.want)
		}
	}
}
