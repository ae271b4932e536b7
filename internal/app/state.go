package app

import (
	"github.com/tphakala/tickwatch/internal/errors"
	"github.com/tphakala/tickwatch/internal/filter"
	"github.com/tphakala/tickwatch/internal/render"
	"github.com/tphakala/tickwatch/internal/sighting"
)

// SetFilter replaces the active criteria. A non-empty severity must name a
// known bucket; it is stored in its normalized form.
func (a *App) SetFilter(c filter.Criteria) error {
	c, err := normalizeCriteria(c)
	if err != nil {
		return err
	}
	a.stateMu.Lock()
	a.criteria = c
	a.stateMu.Unlock()
	return nil
}

func normalizeCriteria(c filter.Criteria) (filter.Criteria, error) {
	if c.Severity == "" {
		return c, nil
	}
	sev, err := sighting.ParseSeverity(string(c.Severity))
	if err != nil {
		return c, errors.New(err).
			Component("app").
			Category(errors.CategoryValidation).
			Context("severity", string(c.Severity)).
			Build()
	}
	c.Severity = sev
	return c, nil
}

// ResetFilter clears the criteria and the selection.
func (a *App) ResetFilter() {
	a.stateMu.Lock()
	a.criteria = filter.Criteria{}
	a.selected = ""
	a.stateMu.Unlock()
}

// Criteria returns the active criteria.
func (a *App) Criteria() filter.Criteria {
	a.stateMu.RLock()
	defer a.stateMu.RUnlock()
	return a.criteria
}

// Filtered applies the active criteria to the working set.
func (a *App) Filtered() []sighting.Sighting {
	return filter.Apply(a.store.All(), a.Criteria(), a.now())
}

// View renders both sinks from one filtered slice, with the current
// selection highlighted.
func (a *App) View() render.View {
	v, _ := a.ViewFor(a.Criteria())
	return v
}

// ViewFor renders both sinks for c without changing the active criteria.
func (a *App) ViewFor(c filter.Criteria) (render.View, error) {
	c, err := normalizeCriteria(c)
	if err != nil {
		return render.View{}, err
	}
	now := a.now()
	v := render.NewView(filter.Apply(a.store.All(), c, now), now)
	if id := a.Selected(); id != "" {
		v.Select(id)
	}
	return v, nil
}

// Select makes id the current selection shared by the marker layer and the
// list, and returns its details.
func (a *App) Select(id string) (render.Details, error) {
	d, err := a.Details(id)
	if err != nil {
		return d, err
	}
	a.stateMu.Lock()
	a.selected = id
	a.stateMu.Unlock()
	return d, nil
}

// ClearSelection removes the current selection.
func (a *App) ClearSelection() {
	a.stateMu.Lock()
	a.selected = ""
	a.stateMu.Unlock()
}

// Selected returns the selected id, or "".
func (a *App) Selected() string {
	a.stateMu.RLock()
	defer a.stateMu.RUnlock()
	return a.selected
}

// Details renders a record with the timeline of its location, drawn from
// the whole working set rather than the filtered view.
func (a *App) Details(id string) (render.Details, error) {
	s, ok := a.store.Get(id)
	if !ok {
		return render.Details{}, notFound(id)
	}
	now := a.now()
	d := render.NewDetails(&s, now)
	d.Timeline = render.Timeline(a.store.All(), s.Location, now.Location())
	return d, nil
}

// Timeline returns the recent history of location.
func (a *App) Timeline(location string) []render.TimelineEntry {
	return render.Timeline(a.store.All(), location, a.now().Location())
}

// Seasonal returns the monthly chart over the working set.
func (a *App) Seasonal(city, year string) render.SeasonalChart {
	return render.Seasonal(a.store.All(), city, year, a.now().Location())
}

// FilterOptions lists the values offered by the filter and chart selectors.
type FilterOptions struct {
	Species    []string             `json:"species"`
	Severities []sighting.Severity  `json:"severities"`
	Cities     []string             `json:"cities"`
	Years      []string             `json:"years"`
	Legend     []render.LegendEntry `json:"legend"`
}

// Options derives the selector values from the working set.
func (a *App) Options() FilterOptions {
	all := a.store.All()
	return FilterOptions{
		Species:    a.store.Species(),
		Severities: sighting.Severities,
		Cities:     render.Cities(all),
		Years:      render.Years(all),
		Legend:     render.Legend(),
	}
}
