// Package filter narrows one year's transaction collection down to the
// records matching a user's query.
package filter

import (
	"foncier/server/internal/domain"
)

// GeoKind discriminates the closed set of geographic filter variants.
type GeoKind int

const (
	GeoCity GeoKind = iota
	GeoDepartment
)

// String returns the string representation of a GeoKind.
func (k GeoKind) String() string {
	switch k {
	case GeoCity:
		return "city"
	case GeoDepartment:
		return "department"
	default:
		return "unknown"
	}
}

// GeoFilter is a two-variant geographic criterion: match by commune name
// (fuzzy) or by department family. Construct it with ByCity or
// ByDepartment; the zero value is not meaningful, absence is expressed by
// a nil *GeoFilter on UserFilters.
type GeoFilter struct {
	kind       GeoKind
	city       domain.City
	department domain.DepartmentCode
}

// ByCity builds a commune-name filter.
func ByCity(city domain.City) GeoFilter {
	return GeoFilter{kind: GeoCity, city: city}
}

// ByDepartment builds a department-family filter.
func ByDepartment(code domain.DepartmentCode) GeoFilter {
	return GeoFilter{kind: GeoDepartment, department: code}
}

// Kind returns the filter variant.
func (g GeoFilter) Kind() GeoKind { return g.kind }

// Matches evaluates the geographic criterion against a location.
func (g GeoFilter) Matches(loc domain.Location) bool {
	switch g.kind {
	case GeoCity:
		return g.city.SamePlace(loc.City)
	case GeoDepartment:
		return g.department.SameFamily(loc.Department)
	default:
		return false
	}
}

// UserFilters is a user's query: every criterion is optional, absent
// bounds are unconstrained. PropertyType compares exactly against the
// transaction's category string.
type UserFilters struct {
	Year         *int
	MinAmount    *float64
	MaxAmount    *float64
	PropertyType *string
	Geo          *GeoFilter
}

// Matches reports whether one transaction satisfies both the geographic
// and the scalar criteria. Amount bounds are inclusive.
func Matches(tx domain.Transaction, f UserFilters) bool {
	if f.Geo != nil && !f.Geo.Matches(tx.Property.Location) {
		return false
	}

	if f.MinAmount != nil && tx.Amount < *f.MinAmount {
		return false
	}
	if f.MaxAmount != nil && tx.Amount > *f.MaxAmount {
		return false
	}
	if f.PropertyType != nil && *f.PropertyType != string(tx.Property.Category) {
		return false
	}

	return true
}

// Apply selects the year collection named by the filters (falling back to
// defaultYear, a configured policy value, when unspecified) and returns
// the transactions matching the remaining criteria.
func Apply(byYear map[int][]domain.Transaction, f UserFilters, defaultYear int) []domain.Transaction {
	year := defaultYear
	if f.Year != nil {
		year = *f.Year
	}

	var matched []domain.Transaction
	for _, tx := range byYear[year] {
		if Matches(tx, f) {
			matched = append(matched, tx)
		}
	}
	return matched
}
