package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/papapumpkin/timecrisis/internal/timeline"
)

var tierTitles = [...]string{
	timeline.LunarProgression: "Lunar progressions",
	timeline.OtherProgression: "Progressions",
	timeline.Transit:          "Transits",
}

// Timeline prints the time map: the month header, then each tier's events
// with their span, exact dates, and for transits the houses involved.
func (p *Printer) Timeline(res timeline.Result) {
	labels := make([]string, len(res.Months))
	for i, m := range res.Months {
		labels[i] = m.Label
	}
	p.heading(fmt.Sprintf("Time map %s to %s", res.Window.Start.Format(time.DateOnly),
		res.Window.End().Format(time.DateOnly)))
	fmt.Fprintln(p.out, styleDim.Render("  "+strings.Join(labels, " | ")))

	for _, tier := range timeline.Tiers() {
		var events []timeline.Event
		for _, e := range res.Events {
			if e.Tier == tier {
				events = append(events, e)
			}
		}
		fmt.Fprintln(p.out)
		fmt.Fprintln(p.out, styleLabel.Render(fmt.Sprintf("%s (%d)", tierTitles[tier], len(events))))
		for _, e := range events {
			p.event(e)
		}
	}
}

func (p *Printer) event(e timeline.Event) {
	name := tierStyles[e.Tier].Render(fmt.Sprintf("%-28s", e.Name))
	span := fmt.Sprintf("%s – %s", e.Start.Format("Jan 2"), e.End.Format("Jan 2 2006"))
	if e.Ongoing {
		span += " " + iconOngoing
	}
	row := fmt.Sprintf("  %s %-26s %s", name, span, styleExact.Render("exact on "+exactList(e.ExactDates)))
	if e.Tier == timeline.Transit && e.TransitHouse > 0 && e.NatalHouse > 0 {
		row += styleDim.Render(fmt.Sprintf("  %s → %s house", humanize.Ordinal(e.TransitHouse), humanize.Ordinal(e.NatalHouse)))
	}
	if e.Tier == timeline.Transit && (len(e.TransitRules) > 0 || len(e.NatalRules) > 0) {
		row += styleDim.Render(fmt.Sprintf("  rules %s: %s; %s: %s",
			e.Aspect.P1, rulesList(e.TransitRules), e.Aspect.P2, rulesList(e.NatalRules)))
	}
	row += styleDim.Render("  (" + humanize.RelTime(e.Exact, p.now(), "ago", "from now") + ")")
	fmt.Fprintln(p.out, row)
}

func rulesList(houses []int) string {
	if len(houses) == 0 {
		return "none"
	}
	return ordinals(houses)
}

func exactList(dates []time.Time) string {
	parts := make([]string, len(dates))
	for i, d := range dates {
		parts[i] = d.Format("Jan 2")
	}
	return strings.Join(parts, ", ")
}
