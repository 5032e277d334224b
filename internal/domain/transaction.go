package domain

import "time"

// SaleNature is the literal value identifying an actual sale in the
// source dataset, as opposed to expropriations, exchanges and other
// recorded mutation types.
const SaleNature = "Vente"

// Location is the validated address of a sold property. Street number and
// suffix may be empty.
type Location struct {
	StreetNumber string
	Suffix       string
	Street       string
	PostalCode   PostalCode
	City         City
	Department   DepartmentCode
	Point        GeoPoint
}

// RealEstate describes the property side of a transaction. RoomCount and
// the two areas are zero when the source field was absent.
type RealEstate struct {
	Category        Category
	RoomCount       RoomCount
	ConstructedArea ConstructedArea
	LandArea        LandArea
	Location        Location
}

// Transaction is one validated sale record. It is built once by the
// parser and never mutated afterwards.
type Transaction struct {
	Date     time.Time
	Nature   string
	Amount   float64
	Property RealEstate
}

// IsValidSale is the semantic acceptance rule applied once after parsing:
// positive amount, actual sale, recognized category, positive constructed
// area. Records entering the per-year collections have all passed it, so
// no downstream component re-checks these.
func (t Transaction) IsValidSale() bool {
	return t.Amount > 0 &&
		t.Nature == SaleNature &&
		t.Property.Category.Recognized() &&
		t.Property.ConstructedArea > 0
}
