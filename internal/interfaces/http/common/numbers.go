package common

import (
	"math"
	"strconv"
	"strings"
)

// ParsePositiveInt parses positive integers with fallback.
func ParsePositiveInt(value string, fallback int) (int, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback, false
	}
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed <= 0 {
		return fallback, false
	}
	return parsed, true
}

// Round1 rounds v to one decimal place.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}
