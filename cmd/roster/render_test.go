package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"roster/internal/core"
	"roster/pkg/domain"
)

func TestRenderStatisticsCapsBars(t *testing.T) {
	people := make([]domain.Person, 0, 12)
	for range 11 {
		people = append(people, domain.Person{Name: "p", Age: 34})
	}
	people = append(people, domain.Person{Name: "q", Age: 71})
	out := renderStatistics(newStyles(&bytes.Buffer{}), core.ComputeStatistics(people))

	var thirties, seventies string
	for _, line := range strings.Split(out, "\n") {
		switch {
		case strings.Contains(line, "30-39"):
			thirties = line
		case strings.Contains(line, "70-79"):
			seventies = line
		}
	}
	if got := strings.Count(thirties, "#"); got != maxBarWidth {
		t.Fatalf("expected the peak bucket capped at %d, got %d in %q", maxBarWidth, got, thirties)
	}
	if got := strings.Count(seventies, "#"); got != 3 {
		t.Fatalf("expected 10*40/110 = 3 marks, got %d in %q", got, seventies)
	}
}

func TestRenderStatisticsEmpty(t *testing.T) {
	out := renderStatistics(newStyles(&bytes.Buffer{}), core.ComputeStatistics(nil))
	if !strings.Contains(out, "no ages to chart") || !strings.Contains(out, "Total people: 0") {
		t.Fatalf("unexpected empty stats output %q", out)
	}
}

func TestRenderPeopleAlignsNames(t *testing.T) {
	rows := []personRow{
		{Position: 1, Person: domain.Person{Name: "Al", Age: 9}},
		{Position: 3, Person: domain.Person{Name: "Bartholomew", Age: 100}},
	}
	out := renderPeople(newStyles(&bytes.Buffer{}), rows, 3, "")
	if !strings.Contains(out, "People (3)") {
		t.Fatalf("missing title in %q", out)
	}
	if !strings.Contains(out, "   1  Al              9") || !strings.Contains(out, "   3  Bartholomew   100") {
		t.Fatalf("rows not aligned: %q", out)
	}
}

func TestWriteMetricsUsesTextExposition(t *testing.T) {
	reg := prometheus.NewRegistry()
	counter := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "roster_test_total", Help: "test counter"}, []string{"operation"})
	reg.MustRegister(counter)
	counter.WithLabelValues("add_person").Add(2)

	var out bytes.Buffer
	if err := writeMetrics(&out, reg); err != nil {
		t.Fatalf("write metrics: %v", err)
	}
	for _, want := range []string{
		"# HELP roster_test_total test counter",
		"# TYPE roster_test_total counter",
		`roster_test_total{operation="add_person"} 2`,
	} {
		if !strings.Contains(out.String(), want) {
			t.Fatalf("expected %q in %q", want, out.String())
		}
	}
}
