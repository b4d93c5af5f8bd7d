package math

import (
	"strconv"
	"strings"
)

// Precision is the number of decimals used when formatting values for reports.
const Precision = 4

// Format formats a float based on the default precision.
func Format(f float64) string {
	return strconv.FormatFloat(f, 'f', Precision, 64)
}

// FormatPoint formats the coordinates of a point e.g. [0.1234 5.6789].
func FormatPoint(p []float64) string {
	ss := make([]string, len(p))
	for i, f := range p {
		ss[i] = Format(f)
	}
	return "[" + strings.Join(ss, " ") + "]"
}
