package models

import (
	"fmt"
	"strings"
)

// Metric is the aggregated statistics record computed over one filtered
// transaction stream. All fields are derived per query and never
// persisted. MedianAmount is nil only when the input stream was empty;
// every other field falls back to zero on empty input.
type Metric struct {
	AveragePrice               float64  `json:"average_price"`
	AveragePricePerSquareMeter float64  `json:"average_price_per_sqm"`
	AverageRoomCount           float64  `json:"average_room_count"`
	AverageConstructedArea     float64  `json:"average_constructed_area"`
	AverageLandArea            float64  `json:"average_land_area"`
	MedianAmount               *float64 `json:"median_amount"`
	TransactionCount           int      `json:"transaction_count"`
	HousePercent               float64  `json:"house_percent"`
	ApartmentPercent           float64  `json:"apartment_percent"`
}

// Render formats the metric for console display.
func (m *Metric) Render() string {
	var b strings.Builder

	fmt.Fprintf(&b, "Transactions:          %d\n", m.TransactionCount)
	fmt.Fprintf(&b, "Average price:         %.2f\n", m.AveragePrice)
	if m.MedianAmount != nil {
		fmt.Fprintf(&b, "Median price:          %.2f\n", *m.MedianAmount)
	} else {
		fmt.Fprintf(&b, "Median price:          n/a\n")
	}
	fmt.Fprintf(&b, "Average price per m2:  %.2f\n", m.AveragePricePerSquareMeter)
	fmt.Fprintf(&b, "Average rooms:         %.2f\n", m.AverageRoomCount)
	fmt.Fprintf(&b, "Average living area:   %.2f\n", m.AverageConstructedArea)
	fmt.Fprintf(&b, "Average land area:     %.2f\n", m.AverageLandArea)
	fmt.Fprintf(&b, "Houses / apartments:   %.2f%% / %.2f%%", m.HousePercent, m.ApartmentPercent)

	return b.String()
}
