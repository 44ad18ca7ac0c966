// internal/charts/text.go
package charts

import (
	"fmt"
	"io"
	"strings"
)

const barWidth = 40

// RenderBars draws a horizontal bar chart for terminals.
func RenderBars(w io.Writer, title string, bars []Bar) error {
	if _, err := fmt.Fprintln(w, title); err != nil {
		return err
	}
	if len(bars) == 0 {
		_, err := fmt.Fprintln(w, "  (no data)")
		return err
	}

	labelWidth, peak := 0, 0.0
	for _, b := range bars {
		labelWidth = max(labelWidth, len(b.Label))
		peak = max(peak, b.Value)
	}
	for _, b := range bars {
		n := 0
		if peak > 0 && b.Value > 0 {
			n = max(1, int(b.Value/peak*barWidth))
		}
		if _, err := fmt.Fprintf(w, "  %-*s %s %g\n", labelWidth, b.Label, strings.Repeat("█", n), b.Value); err != nil {
			return err
		}
	}
	return nil
}

// RenderSlices prints pie slices with their share of the total.
func RenderSlices(w io.Writer, title string, slices []Slice) error {
	bars := make([]Bar, len(slices))
	total := 0.0
	for i, s := range slices {
		bars[i] = Bar{Label: s.Name, Value: s.Value}
		total += s.Value
	}
	if err := RenderBars(w, title, bars); err != nil {
		return err
	}
	if total > 0 {
		for _, s := range slices {
			if _, err := fmt.Fprintf(w, "  %s %.0f%%\n", s.Name, s.Value/total*100); err != nil {
				return err
			}
		}
	}
	return nil
}
