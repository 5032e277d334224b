package parser

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"foncier/server/internal/domain"
)

const datasetHeader = "id_mutation,date_mutation,numero_disposition,nature_mutation,valeur_fonciere," +
	"adresse_numero,adresse_suffixe,adresse_nom_voie,adresse_code_voie,code_postal," +
	"code_commune,nom_commune,code_departement,ancien_code_commune,ancien_nom_commune," +
	"id_parcelle,ancien_id_parcelle,numero_volume,lot1_numero,lot1_surface_carrez," +
	"lot2_numero,lot2_surface_carrez,lot3_numero,lot3_surface_carrez,lot4_numero," +
	"lot4_surface_carrez,lot5_numero,lot5_surface_carrez,nombre_lots,code_type_local," +
	"type_local,surface_reelle_bati,nombre_pieces_principales,code_nature_culture," +
	"nature_culture,code_nature_culture_speciale,nature_culture_speciale,surface_terrain," +
	"longitude,latitude"

// validRecord returns a well-formed 40-field record for a house sale in
// Lyon. Tests mutate individual fields to exercise rejection paths.
func validRecord() []string {
	fields := make([]string, expectedFieldCount)
	fields[0] = "2018-1"
	fields[fieldDate] = "2018-06-12"
	fields[fieldNature] = "Vente"
	fields[fieldAmount] = "250000"
	fields[fieldStreetNumber] = "12"
	fields[fieldSuffix] = "B"
	fields[fieldStreet] = "RUE DE LA REPUBLIQUE"
	fields[fieldPostalCode] = "69001"
	fields[fieldCity] = "Lyon"
	fields[fieldDepartment] = "69"
	fields[fieldCategory] = "Maison"
	fields[fieldConstructedArea] = "80"
	fields[fieldRoomCount] = "4"
	fields[fieldLandArea] = "500"
	fields[fieldLongitude] = "4.8357"
	fields[fieldLatitude] = "45.7640"
	return fields
}

func TestParseRecordValid(t *testing.T) {
	tx, ok := ParseRecord(validRecord())
	require.True(t, ok)

	assert.Equal(t, time.Date(2018, 6, 12, 0, 0, 0, 0, time.UTC), tx.Date)
	assert.Equal(t, "Vente", tx.Nature)
	assert.Equal(t, 250000.0, tx.Amount)
	assert.Equal(t, domain.CategoryHouse, tx.Property.Category)
	assert.Equal(t, domain.RoomCount(4), tx.Property.RoomCount)
	assert.Equal(t, domain.ConstructedArea(80), tx.Property.ConstructedArea)
	assert.Equal(t, domain.LandArea(500), tx.Property.LandArea)
	assert.Equal(t, domain.City("Lyon"), tx.Property.Location.City)
	assert.Equal(t, domain.DepartmentCode("69"), tx.Property.Location.Department)
	assert.Equal(t, domain.PostalCode("69001"), tx.Property.Location.PostalCode)
	assert.InDelta(t, 45.7640, tx.Property.Location.Point.Lat(), 1e-9)
	assert.InDelta(t, 4.8357, tx.Property.Location.Point.Lon(), 1e-9)
	assert.True(t, tx.IsValidSale())
}

func TestParseRecordTruncated(t *testing.T) {
	fields := validRecord()[:20]
	_, ok := ParseRecord(fields)
	assert.False(t, ok)

	_, ok = ParseRecord(nil)
	assert.False(t, ok)
}

func TestParseRecordRejections(t *testing.T) {
	cases := []struct {
		name  string
		field int
		value string
	}{
		{"bad date", fieldDate, "12/06/2018"},
		{"bad amount", fieldAmount, "250 000"},
		{"bad postal code", fieldPostalCode, "690"},
		{"bad department", fieldDepartment, "6"},
		{"bad city", fieldCity, "Lyon3"},
		{"latitude out of bounds", fieldLatitude, "89.0"},
		{"longitude not numeric", fieldLongitude, "east"},
		{"missing category", fieldCategory, ""},
		{"unknown category", fieldCategory, "Terrain"},
		{"non-numeric rooms", fieldRoomCount, "four"},
		{"zero rooms", fieldRoomCount, "0"},
		{"negative area", fieldConstructedArea, "-10"},
		{"non-numeric land", fieldLandArea, "5,00"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			fields := validRecord()
			fields[c.field] = c.value
			_, ok := ParseRecord(fields)
			assert.False(t, ok)
		})
	}
}

func TestParseRecordOptionalFieldsEmpty(t *testing.T) {
	fields := validRecord()
	fields[fieldRoomCount] = ""
	fields[fieldLandArea] = ""

	tx, ok := ParseRecord(fields)
	require.True(t, ok)
	assert.Equal(t, domain.RoomCount(0), tx.Property.RoomCount)
	assert.Equal(t, domain.LandArea(0), tx.Property.LandArea)

	// An absent constructed area still parses but fails the sale rule.
	fields[fieldConstructedArea] = ""
	tx, ok = ParseRecord(fields)
	require.True(t, ok)
	assert.False(t, tx.IsValidSale())
}

func TestParseLine(t *testing.T) {
	line := strings.Join(validRecord(), ",")
	tx, ok := ParseLine(line, ',')
	require.True(t, ok)
	assert.Equal(t, 250000.0, tx.Amount)

	_, ok = ParseLine("not,a,real,record", ',')
	assert.False(t, ok)
}

func TestCheckHeader(t *testing.T) {
	fields := strings.Split(datasetHeader, ",")
	require.Len(t, fields, expectedFieldCount)
	assert.NoError(t, CheckHeader(fields))

	assert.ErrorIs(t, CheckHeader(fields[:30]), ErrSchemaMismatch)

	renamed := append([]string(nil), fields...)
	renamed[fieldAmount] = "prix"
	assert.ErrorIs(t, CheckHeader(renamed), ErrSchemaMismatch)
}

func TestReadAll(t *testing.T) {
	good := strings.Join(validRecord(), ",")

	rental := validRecord()
	rental[fieldNature] = "Location"

	broken := validRecord()
	broken[fieldPostalCode] = "ABC"

	input := strings.Join([]string{
		datasetHeader,
		good,
		strings.Join(rental, ","),
		"short,line",
		strings.Join(broken, ","),
		good,
	}, "\n")

	txs, skipped, err := ReadAll(strings.NewReader(input), ',')
	require.NoError(t, err)
	assert.Len(t, txs, 2)
	assert.Equal(t, 3, skipped)
}

func TestReadAllBadHeader(t *testing.T) {
	input := "colA,colB\n1,2\n"
	_, _, err := ReadAll(strings.NewReader(input), ',')
	assert.ErrorIs(t, err, ErrSchemaMismatch)
}
