package board

import (
	"fmt"
	"io"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"itus/internal/departure"
)

// Example table:
//
//	+-Gløshaugen----------------------------------------------+
//	| 3 Hallset via sentrum        c:a 13 min (14:43 / 14:40) |
//	+---------------------------------------------------------+
const (
	borderWidth    = 2 // "| " and " |"
	gapWidth       = 8
	countdownWidth = 10
	timesWidth     = 15 // "(HH:MM / HH:MM)"

	// countdownLimit is the last minute that still shows a countdown.
	countdownLimit = 15

	clockLayout = "15:04"
)

// Widths holds the two variable column widths of a table.
type Widths struct {
	LineNr   int
	LineName int
}

// LineWidth is the full width of every line of the table, borders included.
func (w Widths) LineWidth() int {
	return borderWidth + w.LineNr + 1 + w.LineName + gapWidth + countdownWidth + 1 + timesWidth + borderWidth
}

// Measure returns the widest line code and destination across deps, counted
// in characters.
func Measure(deps []departure.Departure) Widths {
	var w Widths
	for _, dep := range deps {
		w.LineNr = max(w.LineNr, utf8.RuneCountInString(dep.LineNr))
		w.LineName = max(w.LineName, utf8.RuneCountInString(dep.LineName))
	}
	return w
}

// fit widens the destination column when the platform name would not fit in
// the header, so header, rows and footer stay the same width.
func (w Widths) fit(platformName string) Widths {
	need := utf8.RuneCountInString(platformName) + 4
	if extra := need - w.LineWidth(); extra > 0 {
		w.LineName += extra
	}
	return w
}

// MinutesUntil is the whole number of minutes from now to t, rounded down.
// Times already passed count as zero.
func MinutesUntil(t, now time.Time) int {
	minutes := int(math.Floor(t.Sub(now).Minutes()))
	return max(minutes, 0)
}

// Countdown renders the 10 character countdown field for dep. Departures more
// than 15 minutes away show blanks; schedule-only estimates are marked "c:a".
func Countdown(dep departure.Departure, now time.Time) string {
	delta := MinutesUntil(dep.ExpectedArrivalTime, now)
	if delta > countdownLimit {
		return strings.Repeat(" ", countdownWidth)
	}

	prefix := "    "
	if !dep.Realtime {
		prefix = "c:a "
	}
	return prefix + fmt.Sprintf("%2d min", delta)
}

// Render writes the table for one platform. All departures are assumed to
// share the platform of the first one. An empty list writes nothing.
func Render(w io.Writer, deps []departure.Departure, now time.Time) error {
	if len(deps) == 0 {
		return nil
	}

	platformName := deps[0].PlatformName
	widths := Measure(deps).fit(platformName)
	lineWidth := widths.LineWidth()

	var sb strings.Builder
	sb.WriteString("+-")
	sb.WriteString(platformName)
	sb.WriteString(strings.Repeat("-", lineWidth-4-utf8.RuneCountInString(platformName)))
	sb.WriteString("-+\n")

	for _, dep := range deps {
		fmt.Fprintf(&sb, "| %*s %-*s%s%s (%s / %s) |\n",
			widths.LineNr, dep.LineNr,
			widths.LineName, dep.LineName,
			strings.Repeat(" ", gapWidth),
			Countdown(dep, now),
			dep.ExpectedArrivalTime.Format(clockLayout),
			dep.AimedArrivalTime.Format(clockLayout),
		)
	}

	sb.WriteString("+-")
	sb.WriteString(strings.Repeat("-", lineWidth-4))
	sb.WriteString("-+\n")

	_, err := io.WriteString(w, sb.String())
	return err
}
