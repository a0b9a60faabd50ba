package onda

import "math"

const (
	scalePCMInt16 = 32768.0
	maxPCMInt16   = math.MaxInt16
	minPCMInt16   = math.MinInt16
)

func clampFloat32(value, min, max float32) float32 {
	if value < min {
		return min
	}

	if value > max {
		return max
	}

	return value
}

func normalizePCMInt16(sample int16) float32 {
	return float32(float64(sample) / scalePCMInt16)
}

// float32ToPCMInt16 maps [-1, 1] onto the int16 range. NaN maps to silence.
func float32ToPCMInt16(value float32) int16 {
	if math.IsNaN(float64(value)) {
		return 0
	}

	value = clampFloat32(value, -1, 1)

	return clampInt16(int(math.Round(float64(value) * scalePCMInt16)))
}

func clampInt16(sample int) int16 {
	return int16(min(max(sample, minPCMInt16), maxPCMInt16))
}
