// Package funding derives the display values of a project's funding progress.
package funding

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/civicspace/agora/internal/services/web/backend"
)

// Percentage returns current as a share of budget, clamped to [0, 100].
// A non-positive budget yields 0.
func Percentage(current float64, budget float64) float64 {
	if budget <= 0 || math.IsNaN(current) || math.IsNaN(budget) {
		return 0
	}
	p := current / budget * 100
	switch {
	case p < 0:
		return 0
	case p > 100:
		return 100
	default:
		return p
	}
}

// FormatPercent renders a percentage with one decimal place.
func FormatPercent(p float64) string {
	return fmt.Sprintf("%.1f%%", p)
}

// FormatAmount renders a euro amount with exactly two decimals and no
// grouping, e.g. "€1250.00".
func FormatAmount(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		v = 0
	}
	return "€" + strconv.FormatFloat(v, 'f', 2, 64)
}

// Progress is the derived funding view of one project.
type Progress struct {
	Percentage float64
	Percent    string
	Current    string
	Target     string
	Completed  bool
}

// View derives the funding progress of a project.
func View(project backend.Project) Progress {
	current := project.Funding()
	p := Percentage(current, project.Budget)
	return Progress{
		Percentage: p,
		Percent:    FormatPercent(p),
		Current:    FormatAmount(current),
		Target:     FormatAmount(project.Budget),
		Completed:  project.Budget > 0 && current >= project.Budget,
	}
}

// Width returns the bar width for a value as a CSS percentage of max.
func Width(value float64, max float64) string {
	return FormatPercent(Percentage(value, max))
}

// ParseAmount reads a positive euro amount typed by a visitor. A decimal
// comma is accepted and the result is rounded to cents.
func ParseAmount(raw string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(raw), ",", "."), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	v = math.Round(v*100) / 100
	return v, v > 0
}
