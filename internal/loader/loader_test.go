package loader

import (
	"compress/gzip"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
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

func saleLine(amount string) string {
	fields := make([]string, 40)
	fields[0] = "2018-1"
	fields[1] = "2018-06-12"
	fields[3] = "Vente"
	fields[4] = amount
	fields[7] = "RUE DE LA REPUBLIQUE"
	fields[9] = "69001"
	fields[11] = "Lyon"
	fields[12] = "69"
	fields[30] = "Maison"
	fields[31] = "80"
	fields[32] = "4"
	fields[37] = "500"
	fields[38] = "4.8357"
	fields[39] = "45.7640"
	return strings.Join(fields, ",")
}

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

func TestLoadYears(t *testing.T) {
	body := datasetHeader + "\n" + saleLine("250000") + "\n" + saleLine("180000") + "\n"

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/2018/full.csv.gz":
			w.Header().Set("Content-Type", "application/gzip")
			gz := gzip.NewWriter(w)
			fmt.Fprint(gz, body)
			gz.Close()
		case "/2019/full.csv.gz":
			http.NotFound(w, r)
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer server.Close()

	fetcher := NewHTTPFetcher(server.URL+"/%d/full.csv.gz", 5*time.Second, testLogger())
	l := NewLoader(fetcher, ',', testLogger())

	byYear := l.LoadYears(context.Background(), 2018, 2019)
	require.Len(t, byYear, 2)

	// 2018 parses both sales; the 404 year is present but empty.
	assert.Len(t, byYear[2018], 2)
	assert.Empty(t, byYear[2019])
	assert.Equal(t, 250000.0, byYear[2018][0].Amount)
}

func TestLoadYearsPlainBody(t *testing.T) {
	body := datasetHeader + "\n" + saleLine("300000") + "\n"

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, body)
	}))
	defer server.Close()

	fetcher := NewHTTPFetcher(server.URL+"/%d/full.csv", 5*time.Second, testLogger())
	l := NewLoader(fetcher, ',', testLogger())

	byYear := l.LoadYears(context.Background(), 2020, 2020)
	require.Len(t, byYear[2020], 1)
	assert.Equal(t, 300000.0, byYear[2020][0].Amount)
}

func TestLoadYearsBadHeader(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "colA,colB\n1,2\n")
	}))
	defer server.Close()

	fetcher := NewHTTPFetcher(server.URL+"/%d/full.csv", 5*time.Second, testLogger())
	l := NewLoader(fetcher, ',', testLogger())

	byYear := l.LoadYears(context.Background(), 2018, 2018)
	assert.Empty(t, byYear[2018])
}

func TestHTTPFetcherStatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	fetcher := NewHTTPFetcher(server.URL+"/%d/full.csv", 5*time.Second, testLogger())
	_, err := fetcher.Fetch(context.Background(), 2018)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status 500")
}
