package core

import (
	"context"
	"math"
	"sort"

	"roster/pkg/domain"
)

// HistogramScale is the display factor applied to bucket counts. The
// dashboard bar chart has always drawn count*10; ScaledCount keeps that
// convention while Count stays the raw number of people.
const HistogramScale = 10

// Bucket is one decade of the age histogram.
type Bucket struct {
	Start       int `json:"start"`
	Count       int `json:"count"`
	ScaledCount int `json:"scaled_count"`
}

// Statistics summarizes the roster.
type Statistics struct {
	Total      int      `json:"total"`
	AverageAge float64  `json:"average_age"`
	Oldest     int      `json:"oldest"`
	Youngest   int      `json:"youngest"`
	Histogram  []Bucket `json:"histogram"`
}

// ComputeStatistics derives the summary for people. An empty input yields
// the zero summary with an empty histogram.
func ComputeStatistics(people []domain.Person) Statistics {
	if len(people) == 0 {
		return Statistics{Histogram: []Bucket{}}
	}
	sum := 0.0
	oldest, youngest := people[0].Age, people[0].Age
	counts := make(map[int]int)
	for _, p := range people {
		sum += float64(p.Age)
		if p.Age > oldest {
			oldest = p.Age
		}
		if p.Age < youngest {
			youngest = p.Age
		}
		counts[p.Age/10*10]++
	}
	histogram := make([]Bucket, 0, len(counts))
	for start, count := range counts {
		histogram = append(histogram, Bucket{Start: start, Count: count, ScaledCount: count * HistogramScale})
	}
	sort.Slice(histogram, func(i, j int) bool { return histogram[i].Start < histogram[j].Start })
	return Statistics{
		Total:      len(people),
		AverageAge: roundTenths(sum / float64(len(people))),
		Oldest:     oldest,
		Youngest:   youngest,
		Histogram:  histogram,
	}
}

// roundTenths rounds to one decimal place, ties to even.
func roundTenths(v float64) float64 {
	return math.RoundToEven(v*10) / 10
}

// Aggregator keeps the statistics current by recomputing on every change.
type Aggregator struct {
	current    Statistics
	recomputes int
}

var _ domain.Subscriber = (*Aggregator)(nil)

// NewAggregator returns an aggregator holding the empty summary.
func NewAggregator() *Aggregator {
	return &Aggregator{current: ComputeStatistics(nil)}
}

// Name implements domain.Subscriber.
func (a *Aggregator) Name() string { return "statistics" }

// OnChange implements domain.Subscriber.
func (a *Aggregator) OnChange(_ context.Context, view domain.View, _ domain.Change) error {
	a.Refresh(view)
	return nil
}

// Refresh recomputes from view.
func (a *Aggregator) Refresh(view domain.View) {
	a.current = ComputeStatistics(snapshotOf(view.People()))
	a.recomputes++
}

// Current returns the latest summary. The histogram is a copy.
func (a *Aggregator) Current() Statistics {
	out := a.current
	out.Histogram = append([]Bucket{}, a.current.Histogram...)
	return out
}

// Recomputes returns how many times the summary has been derived.
func (a *Aggregator) Recomputes() int { return a.recomputes }
