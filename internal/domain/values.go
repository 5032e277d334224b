package domain

import (
	"regexp"

	"github.com/paulmach/orb"
)

var (
	postalCodePattern = regexp.MustCompile(`^\d{4,5}$`)
	cityPattern       = regexp.MustCompile(`^[\p{L}' -]+$`)
	departmentPattern = regexp.MustCompile(`^(\d{2,3}|2A|2B)$`)
)

// Latitude/longitude bounds covering continental and overseas France.
const (
	minLatitude  = -50.0
	maxLatitude  = 51.0
	minLongitude = -61.0
	maxLongitude = 77.0
)

// PostalCode is a validated French postal code (4 or 5 digits; leading
// zeroes may be stripped upstream, hence the 4-digit form).
type PostalCode string

// NewPostalCode validates a raw postal code. The second return value is
// false when the input does not match the expected shape.
func NewPostalCode(raw string) (PostalCode, bool) {
	if !postalCodePattern.MatchString(raw) {
		return "", false
	}
	return PostalCode(raw), true
}

// City is a validated commune name: letters (accents included),
// apostrophes, hyphens and spaces only.
type City string

// NewCity validates a raw commune name.
func NewCity(raw string) (City, bool) {
	if !cityPattern.MatchString(raw) {
		return "", false
	}
	return City(raw), true
}

// DepartmentCode is a validated department code: 2 or 3 digits, or the
// Corsican codes "2A" and "2B".
type DepartmentCode string

// NewDepartmentCode validates a raw department code.
func NewDepartmentCode(raw string) (DepartmentCode, bool) {
	if !departmentPattern.MatchString(raw) {
		return "", false
	}
	return DepartmentCode(raw), true
}

// GeoPoint is a coordinate pair bounded to French territory.
type GeoPoint struct {
	point orb.Point
}

// NewGeoPoint validates a latitude/longitude pair.
func NewGeoPoint(lat, lon float64) (GeoPoint, bool) {
	if lat < minLatitude || lat > maxLatitude {
		return GeoPoint{}, false
	}
	if lon < minLongitude || lon > maxLongitude {
		return GeoPoint{}, false
	}
	return GeoPoint{point: orb.Point{lon, lat}}, true
}

// Lat returns the latitude.
func (g GeoPoint) Lat() float64 { return g.point.Lat() }

// Lon returns the longitude.
func (g GeoPoint) Lon() float64 { return g.point.Lon() }

// Point returns the underlying orb point ({lon, lat} order).
func (g GeoPoint) Point() orb.Point { return g.point }

// Category is the recognized housing category of a sold property.
type Category string

const (
	CategoryHouse     Category = "Maison"
	CategoryApartment Category = "Appartement"
)

// NewCategory validates a raw housing category against the closed
// enumeration.
func NewCategory(raw string) (Category, bool) {
	switch Category(raw) {
	case CategoryHouse, CategoryApartment:
		return Category(raw), true
	default:
		return "", false
	}
}

// Recognized reports whether the category is one of the two enumerated
// values. The zero value is not recognized.
func (c Category) Recognized() bool {
	return c == CategoryHouse || c == CategoryApartment
}

// RoomCount is a validated number of main rooms (> 0).
type RoomCount int

// NewRoomCount validates a raw room count.
func NewRoomCount(n int) (RoomCount, bool) {
	if n <= 0 {
		return 0, false
	}
	return RoomCount(n), true
}

// ConstructedArea is a validated constructed surface in square meters (> 0).
type ConstructedArea int

// NewConstructedArea validates a raw constructed surface.
func NewConstructedArea(n int) (ConstructedArea, bool) {
	if n <= 0 {
		return 0, false
	}
	return ConstructedArea(n), true
}

// LandArea is a validated land surface in square meters (> 0).
type LandArea int

// NewLandArea validates a raw land surface.
func NewLandArea(n int) (LandArea, bool) {
	if n <= 0 {
		return 0, false
	}
	return LandArea(n), true
}
