// Package power estimates a frame's aggregate current draw and scales it
// under the configured ceiling before serialization.
package power

// fullWhiteSum is the channel sum of one element at full white (3 * 255).
const fullWhiteSum = 765

// Limiter holds the configured current ceiling. The estimate is linear in
// the per-channel sum: each element draws its proportional share of
// FullScaleMilliamps. That direction deliberately overestimates real LED
// current curves; it must never undercount against the electrical ceiling.
type Limiter struct {
	BudgetMilliamps    int
	FullScaleMilliamps int
}

// Estimate returns the worst-case current draw of the frame in milliamps.
func (l Limiter) Estimate(rgb []byte) int {
	var sum uint64
	for _, v := range rgb {
		sum += uint64(v)
	}
	// Ceiling division keeps the estimate on the safe side of the budget.
	return int((sum*uint64(l.FullScaleMilliamps) + fullWhiteSum - 1) / fullWhiteSum)
}

// Apply recomputes the frame's current draw and, if it exceeds the budget,
// dims every channel uniformly so the post-scale estimate stays within it.
// Frames under budget pass through byte-identical. The applied scale factor
// is returned; 1 means unchanged.
func (l Limiter) Apply(rgb []byte) float64 {
	if l.BudgetMilliamps <= 0 {
		return 1
	}
	total := l.Estimate(rgb)
	if total <= l.BudgetMilliamps {
		return 1
	}
	scale := float64(l.BudgetMilliamps) / float64(total)
	for i, v := range rgb {
		// Truncation, not rounding: rounding up could nudge the frame
		// back over the ceiling.
		rgb[i] = uint8(float64(v) * scale)
	}
	return scale
}

// Prescale applies the global brightness factor (0..1) ahead of the limiter.
func Prescale(rgb []byte, brightness float64) {
	if brightness >= 1 {
		return
	}
	if brightness < 0 {
		brightness = 0
	}
	for i, v := range rgb {
		rgb[i] = uint8(float64(v) * brightness)
	}
}
