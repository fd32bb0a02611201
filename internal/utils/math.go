package utils

// Clamp bounds value into [min, max].
func Clamp(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

// Floor returns value, raised to floor when it falls below it.
func Floor(value, floor float64) float64 {
	if value < floor {
		return floor
	}
	return value
}
