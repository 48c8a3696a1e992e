package ui

import (
	"fmt"

	"github.com/papapumpkin/timecrisis/internal/record"
)

// Records prints stored charts, one per line.
func (p *Printer) Records(rs []record.Record) {
	if len(rs) == 0 {
		p.Info("no saved charts")
		return
	}
	for _, r := range rs {
		fmt.Fprintf(p.out, "%s  %-20s %s %s %s  %s\n",
			styleDim.Render(r.ID[:min(8, len(r.ID))]), r.Name, r.BirthDate, r.BirthTime, r.AMPM, r.Location)
	}
}

// Record prints every field of one stored chart.
func (p *Printer) Record(r record.Record) {
	p.heading(r.Name)
	rows := []struct{ k, v string }{
		{"id", r.ID},
		{"born", fmt.Sprintf("%s %s %s", r.BirthDate, r.BirthTime, r.AMPM)},
		{"location", r.Location},
		{"coordinates", fmt.Sprintf("%.4f, %.4f", r.Latitude, r.Longitude)},
		{"timezone", r.Timezone},
		{"houses", r.HouseSystem},
	}
	for _, row := range rows {
		if row.v == "" {
			continue
		}
		fmt.Fprintf(p.out, "  %-12s %s\n", styleLabel.Render(row.k), row.v)
	}
}
