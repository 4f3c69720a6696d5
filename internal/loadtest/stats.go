package loadtest

import (
	"encoding/csv"
	"fmt"
	"io"
	"slices"
)

// Summary holds latency statistics in milliseconds.
type Summary struct {
	Count       int
	TrimmedMean float64
	P50         float64
	P90         float64
	P99         float64
}

// Summarize sorts latencies in place and computes the summary after cutting
// trimPercent of the samples from each end.
func Summarize(latencies []float64, trimPercent float64) Summary {
	slices.Sort(latencies)
	trimmed := trim(latencies, trimPercent)
	return Summary{
		Count:       len(latencies),
		TrimmedMean: mean(trimmed),
		P50:         Percentile(trimmed, 50),
		P90:         Percentile(trimmed, 90),
		P99:         Percentile(trimmed, 99),
	}
}

func (s Summary) String() string {
	return fmt.Sprintf("count=%d trimmed_mean=%.2f p50=%.2f p90=%.2f p99=%.2f",
		s.Count, s.TrimmedMean, s.P50, s.P90, s.P99)
}

func trim(sorted []float64, trimPercent float64) []float64 {
	n := int(float64(len(sorted)) * trimPercent / 100.0)
	if n*2 >= len(sorted) {
		n = (len(sorted) - 1) / 2
	}
	return sorted[n : len(sorted)-n]
}

func mean(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	var sum float64
	for _, v := range data {
		sum += v
	}
	return sum / float64(len(data))
}

// Percentile interpolates linearly between the closest ranks of sorted data.
func Percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	k := (p / 100.0) * float64(len(sorted)-1)
	f := int(k)
	c := f + 1
	if c >= len(sorted) {
		return sorted[len(sorted)-1]
	}
	return sorted[f]*(float64(c)-k) + sorted[c]*(k-float64(f))
}

// WriteCSV writes one latency per row under a latency_ms header.
func WriteCSV(w io.Writer, latencies []float64) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"latency_ms"}); err != nil {
		return err
	}
	for _, v := range latencies {
		if err := cw.Write([]string{fmt.Sprintf("%.3f", v)}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
