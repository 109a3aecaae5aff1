package domain

import "strings"

// Filter is the conjunctive predicate built from a SearchQuery.
// Status is fixed to approved and cannot be set by callers.
//
// Radius filtering is not pushed to the store: it is evaluated after candidates
// are fetched, as an O(n) scan over the candidate set.
type Filter struct {
	status   Status
	Text     string
	Category string
	PriceMin *float64
	PriceMax *float64
	Origin   *Location
	RadiusKm *float64
}

// BuildFilter translates a validated query into a Filter.
func BuildFilter(q SearchQuery) Filter {
	f := Filter{
		status:   StatusApproved,
		Text:     q.Text,
		Category: q.Category,
		PriceMin: q.PriceMin,
		PriceMax: q.PriceMax,
	}
	if q.RadiusFilter() {
		f.Origin = q.Origin
		f.RadiusKm = q.RadiusKm
	}
	return f
}

// Status returns the required listing status.
func (f Filter) Status() Status {
	if f.status == "" {
		return StatusApproved
	}
	return f.status
}

// Matches evaluates the non-geo part of the predicate against l.
func (f Filter) Matches(l Listing) bool {
	if l.Status != f.Status() {
		return false
	}
	if f.Category != "" && l.Category != f.Category {
		return false
	}
	if f.PriceMin != nil && l.Price.Amount < *f.PriceMin {
		return false
	}
	if f.PriceMax != nil && l.Price.Amount > *f.PriceMax {
		return false
	}
	if f.Text != "" && !matchesText(l, f.Text) {
		return false
	}
	return true
}

// WithinRadius evaluates the geo part of the predicate for a computed distance.
// Listings without a location never qualify while a radius is active.
func (f Filter) WithinRadius(distanceKm *float64) bool {
	if f.Origin == nil || f.RadiusKm == nil {
		return true
	}
	if distanceKm == nil {
		return false
	}
	return *distanceKm <= *f.RadiusKm
}

func matchesText(l Listing, text string) bool {
	needle := strings.ToLower(text)
	if strings.Contains(strings.ToLower(l.Title), needle) ||
		strings.Contains(strings.ToLower(l.Description), needle) {
		return true
	}
	for _, tag := range l.Tags {
		if strings.Contains(strings.ToLower(tag), needle) {
			return true
		}
	}
	return false
}
