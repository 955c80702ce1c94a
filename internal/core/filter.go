package core

import (
	"context"
	"strings"

	"golang.org/x/text/cases"

	"roster/pkg/domain"
)

// FilterView projects the store through a case-insensitive name query.
type FilterView struct {
	source  domain.View
	query   string
	folded  string
	visible []*domain.Person
}

var _ domain.Subscriber = (*FilterView)(nil)

// NewFilterView builds a view over source with an empty query.
func NewFilterView(source domain.View) *FilterView {
	f := &FilterView{source: source}
	f.recompute(source)
	return f
}

// Name implements domain.Subscriber.
func (f *FilterView) Name() string { return "filter" }

// OnChange implements domain.Subscriber.
func (f *FilterView) OnChange(_ context.Context, view domain.View, _ domain.Change) error {
	f.recompute(view)
	return nil
}

// SetQuery replaces the query and re-derives the visible subset.
func (f *FilterView) SetQuery(q string) {
	f.query = q
	f.folded = fold(strings.TrimSpace(q))
	f.recompute(f.source)
}

// Query returns the current query as entered.
func (f *FilterView) Query() string { return f.query }

// Visible returns the matching people in store order.
func (f *FilterView) Visible() []*domain.Person {
	out := make([]*domain.Person, len(f.visible))
	copy(out, f.visible)
	return out
}

// Matches reports whether p passes the current query.
func (f *FilterView) Matches(p *domain.Person) bool {
	return f.folded == "" || strings.Contains(fold(p.Name), f.folded)
}

func (f *FilterView) recompute(view domain.View) {
	people := view.People()
	visible := make([]*domain.Person, 0, len(people))
	for _, p := range people {
		if f.Matches(p) {
			visible = append(visible, p)
		}
	}
	f.visible = visible
}

func fold(s string) string {
	return cases.Fold().String(s)
}
