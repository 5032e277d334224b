// Package parser turns raw DVF ("demandes de valeurs foncières") CSV
// records into validated domain transactions. Malformed records are
// discarded silently: the dataset runs to millions of lines and sparse
// corruption must never abort a load.
package parser

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"foncier/server/internal/domain"
)

// Zero-based field positions of the 40-column geolocated DVF schema.
// The upstream layout is a versioned external contract: a silent schema
// change would break parsing, which is why CheckHeader runs before any
// bulk processing.
const (
	fieldDate            = 1
	fieldNature          = 3
	fieldAmount          = 4
	fieldStreetNumber    = 5
	fieldSuffix          = 6
	fieldStreet          = 7
	fieldPostalCode      = 9
	fieldCity            = 11
	fieldDepartment      = 12
	fieldCategory        = 30
	fieldConstructedArea = 31
	fieldRoomCount       = 32
	fieldLandArea        = 37
	fieldLongitude       = 38
	fieldLatitude        = 39

	expectedFieldCount = 40
)

const dateLayout = "2006-01-02"

// ErrSchemaMismatch reports a dataset header that no longer matches the
// expected DVF column layout.
var ErrSchemaMismatch = errors.New("dataset header does not match the expected DVF schema")

// CheckHeader verifies the dataset header against the expected schema:
// column count plus a couple of landmark column names. It is deliberately
// lightweight; it guards against silent upstream layout changes, not
// against arbitrary corruption.
func CheckHeader(fields []string) error {
	if len(fields) != expectedFieldCount {
		return fmt.Errorf("%w: got %d columns, want %d", ErrSchemaMismatch, len(fields), expectedFieldCount)
	}
	if fields[fieldDate] != "date_mutation" || fields[fieldAmount] != "valeur_fonciere" {
		return fmt.Errorf("%w: landmark columns missing (got %q at %d, %q at %d)",
			ErrSchemaMismatch, fields[fieldDate], fieldDate, fields[fieldAmount], fieldAmount)
	}
	return nil
}

// ParseLine splits one raw line on the separator and parses it. The
// second return value is false when the record is discarded.
func ParseLine(line string, sep rune) (domain.Transaction, bool) {
	return ParseRecord(strings.Split(line, string(sep)))
}

// ParseRecord builds a validated transaction from one record's fields.
// All location fields are mandatory and short-circuit the record on
// failure. Room count and the two areas are optional but must validate
// when present; category is mandatory. ParseRecord never panics on short
// or garbled records.
func ParseRecord(fields []string) (domain.Transaction, bool) {
	if len(fields) < expectedFieldCount {
		return domain.Transaction{}, false
	}

	date, err := time.Parse(dateLayout, fields[fieldDate])
	if err != nil {
		return domain.Transaction{}, false
	}

	amount, err := strconv.ParseFloat(fields[fieldAmount], 64)
	if err != nil {
		return domain.Transaction{}, false
	}

	location, ok := parseLocation(fields)
	if !ok {
		return domain.Transaction{}, false
	}

	property, ok := parseRealEstate(fields, location)
	if !ok {
		return domain.Transaction{}, false
	}

	return domain.Transaction{
		Date:     date,
		Nature:   fields[fieldNature],
		Amount:   amount,
		Property: property,
	}, true
}

func parseLocation(fields []string) (domain.Location, bool) {
	postal, ok := domain.NewPostalCode(fields[fieldPostalCode])
	if !ok {
		return domain.Location{}, false
	}

	department, ok := domain.NewDepartmentCode(fields[fieldDepartment])
	if !ok {
		return domain.Location{}, false
	}

	lat, err := strconv.ParseFloat(fields[fieldLatitude], 64)
	if err != nil {
		return domain.Location{}, false
	}
	lon, err := strconv.ParseFloat(fields[fieldLongitude], 64)
	if err != nil {
		return domain.Location{}, false
	}
	point, ok := domain.NewGeoPoint(lat, lon)
	if !ok {
		return domain.Location{}, false
	}

	city, ok := domain.NewCity(fields[fieldCity])
	if !ok {
		return domain.Location{}, false
	}

	return domain.Location{
		StreetNumber: fields[fieldStreetNumber],
		Suffix:       fields[fieldSuffix],
		Street:       fields[fieldStreet],
		PostalCode:   postal,
		City:         city,
		Department:   department,
		Point:        point,
	}, true
}

func parseRealEstate(fields []string, location domain.Location) (domain.RealEstate, bool) {
	category, ok := domain.NewCategory(fields[fieldCategory])
	if !ok {
		return domain.RealEstate{}, false
	}

	property := domain.RealEstate{
		Category: category,
		Location: location,
	}

	if raw := fields[fieldRoomCount]; raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return domain.RealEstate{}, false
		}
		rooms, ok := domain.NewRoomCount(n)
		if !ok {
			return domain.RealEstate{}, false
		}
		property.RoomCount = rooms
	}

	if raw := fields[fieldConstructedArea]; raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return domain.RealEstate{}, false
		}
		area, ok := domain.NewConstructedArea(n)
		if !ok {
			return domain.RealEstate{}, false
		}
		property.ConstructedArea = area
	}

	if raw := fields[fieldLandArea]; raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return domain.RealEstate{}, false
		}
		land, ok := domain.NewLandArea(n)
		if !ok {
			return domain.RealEstate{}, false
		}
		property.LandArea = land
	}

	return property, true
}

// ReadAll streams a whole dataset file: header check first, then one
// validated sale per accepted record. skipped counts records discarded by
// parsing or by the semantic validator.
func ReadAll(r io.Reader, sep rune) (txs []domain.Transaction, skipped int, err error) {
	reader := csv.NewReader(r)
	reader.Comma = sep
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read dataset header: %w", err)
	}
	if err := CheckHeader(header); err != nil {
		return nil, 0, err
	}

	for {
		fields, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// A single garbled record is not a dataset failure, but a
			// broken underlying stream is.
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				skipped++
				continue
			}
			return nil, skipped, fmt.Errorf("failed to read dataset records: %w", err)
		}

		tx, ok := ParseRecord(fields)
		if !ok || !tx.IsValidSale() {
			skipped++
			continue
		}
		txs = append(txs, tx)
	}

	return txs, skipped, nil
}
