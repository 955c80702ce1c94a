package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"

	"roster/internal/core"
	"roster/pkg/domain"
)

const maxBarWidth = 40

type styles struct {
	title  lipgloss.Style
	header lipgloss.Style
	muted  lipgloss.Style
	ok     lipgloss.Style
	err    lipgloss.Style
	bar    lipgloss.Style
	box    lipgloss.Style
}

// newStyles binds the palette to w so colour is only emitted to terminals.
func newStyles(w io.Writer) styles {
	r := lipgloss.NewRenderer(w)
	return styles{
		title:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		header: r.NewStyle().Bold(true).Foreground(lipgloss.Color("250")),
		muted:  r.NewStyle().Foreground(lipgloss.Color("241")),
		ok:     r.NewStyle().Foreground(lipgloss.Color("42")),
		err:    r.NewStyle().Bold(true).Foreground(lipgloss.Color("196")),
		bar:    r.NewStyle().Foreground(lipgloss.Color("214")),
		box:    r.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("241")).Padding(0, 1),
	}
}

type personRow struct {
	Position int
	Person   domain.Person
}

func renderPeople(st styles, rows []personRow, total int, query string) string {
	var b strings.Builder
	title := fmt.Sprintf("People (%d)", total)
	if strings.TrimSpace(query) != "" {
		title = fmt.Sprintf("People matching %q (%d of %d)", query, len(rows), total)
	}
	b.WriteString(st.title.Render(title))
	b.WriteString("\n")
	if len(rows) == 0 {
		b.WriteString(st.muted.Render("no people"))
		return st.box.Render(b.String())
	}
	nameWidth := len("Name")
	for _, r := range rows {
		nameWidth = max(nameWidth, lipgloss.Width(r.Person.Name))
	}
	b.WriteString(st.header.Render(fmt.Sprintf("%4s  %-*s  %4s", "#", nameWidth, "Name", "Age")))
	for _, r := range rows {
		fmt.Fprintf(&b, "\n%4d  %-*s  %4d", r.Position, nameWidth, r.Person.Name, r.Person.Age)
	}
	return st.box.Render(b.String())
}

func renderStatistics(st styles, stats core.Statistics) string {
	var b strings.Builder
	b.WriteString(st.title.Render("Statistics"))
	fmt.Fprintf(&b, "\nTotal people: %d", stats.Total)
	fmt.Fprintf(&b, "\nAverage age:  %.1f", stats.AverageAge)
	fmt.Fprintf(&b, "\nOldest:       %d", stats.Oldest)
	fmt.Fprintf(&b, "\nYoungest:     %d", stats.Youngest)
	if len(stats.Histogram) == 0 {
		b.WriteString("\n" + st.muted.Render("no ages to chart"))
		return st.box.Render(b.String())
	}
	b.WriteString("\n\n" + st.header.Render("Age distribution"))
	peak := 0
	for _, bucket := range stats.Histogram {
		peak = max(peak, bucket.ScaledCount)
	}
	for _, bucket := range stats.Histogram {
		width := bucket.ScaledCount
		if peak > maxBarWidth {
			width = max(1, bucket.ScaledCount*maxBarWidth/peak)
		}
		label := fmt.Sprintf("%3d-%-3d", bucket.Start, bucket.Start+9)
		fmt.Fprintf(&b, "\n%s %s %d", label, st.bar.Render(strings.Repeat("#", width)), bucket.Count)
	}
	return st.box.Render(b.String())
}

// writeMetrics dumps every gathered family in the Prometheus text format.
func writeMetrics(w io.Writer, reg prometheus.Gatherer) error {
	families, err := reg.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("write metric %s: %w", mf.GetName(), err)
		}
	}
	return nil
}
