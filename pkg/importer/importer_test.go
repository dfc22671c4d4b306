package importer

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v3"

	"github.com/weee-open/gotarallo/pkg/tarallo"
)

const testMapping = `
version: 1
sheets:
  RAM:
    parent: Magazzino
    code_column: Code
    parent_column: Location
    features:
      Brand:
        feature: brand
      Frequency:
        feature: frequency-hertz
        type: integer
    defaults:
      type: ram
`

func loadTestMapping(t *testing.T) *Mapping {
	t.Helper()

	mapping, err := LoadMapping(strings.NewReader(testMapping))
	require.NoError(t, err)
	return mapping
}

// testWorkbook builds an in-memory .xlsx with the given sheets, each a
// header row followed by data rows.
func testWorkbook(t *testing.T, sheets map[string][][]string) io.Reader {
	t.Helper()

	file := xlsx.NewFile()
	for name, rows := range sheets {
		sheet, err := file.AddSheet(name)
		require.NoError(t, err)
		for _, cells := range rows {
			row := sheet.AddRow()
			for _, value := range cells {
				row.AddCell().SetString(value)
			}
		}
	}

	var buf bytes.Buffer
	require.NoError(t, file.Write(&buf))
	return &buf
}

func newTestClient(t *testing.T, serverURL string) *tarallo.Client {
	t.Helper()

	client, err := tarallo.NewClient(&tarallo.Config{
		BaseURL: serverURL,
		Token:   "test-token",
		Logger:  hclog.NewNullLogger(),
	})
	require.NoError(t, err)
	t.Cleanup(client.CloseIdleConnections)

	return client
}

func TestLoadMapping(t *testing.T) {
	mapping := loadTestMapping(t)

	sheet, ok := mapping.Sheets["RAM"]
	require.True(t, ok)
	assert.Equal(t, "Magazzino", sheet.Parent)
	assert.Equal(t, "Code", sheet.CodeColumn)
	assert.Equal(t, "frequency-hertz", sheet.Features["Frequency"].Feature)
	assert.Equal(t, TypeInteger, sheet.Features["Frequency"].Type)
}

func TestLoadMapping_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"unknown field", "version: 1\nshets: {}\n"},
		{"no sheets", "version: 1\n"},
		{"no parent", "version: 1\nsheets:\n  RAM:\n    features:\n      Brand: {feature: brand}\n"},
		{"no features", "version: 1\nsheets:\n  RAM:\n    parent: Box\n"},
		{"empty feature name", "version: 1\nsheets:\n  RAM:\n    parent: Box\n    features:\n      Brand: {feature: \"\"}\n"},
		{"unknown type", "version: 1\nsheets:\n  RAM:\n    parent: Box\n    features:\n      Brand: {feature: brand, type: blob}\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadMapping(strings.NewReader(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestImport(t *testing.T) {
	var gotPath string
	var gotItems []map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &gotItems))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	workbook := testWorkbook(t, map[string][][]string{
		"RAM": {
			{"Code", "Brand", "Frequency", "Location"},
			{"R100", "Samsung", "667000000", ""},
			{"", "Kingston", "800000000", "Chernobyl"},
			{},
			{"R102", "Corsair", "eight hundred", ""},
		},
		"Notes": {
			{"whatever"},
			{"this sheet has no mapping"},
		},
	})

	client := newTestClient(t, server.URL)
	summary, err := Import(context.Background(), client, workbook, loadTestMapping(t), Options{
		Identifier: "batch-1",
	})
	require.NoError(t, err)

	assert.Equal(t, "/bulk/add/batch-1", gotPath)
	assert.True(t, summary.Submitted)
	assert.Equal(t, 2, summary.Items)
	assert.Equal(t, 1, summary.Errors)
	assert.Equal(t, 1, summary.Skipped)
	require.Len(t, summary.Sheets, 1, "unmapped sheets are not reported")

	sheet := summary.Sheets[0]
	assert.Equal(t, "RAM", sheet.Name)
	require.Len(t, sheet.Samples, 1)
	assert.Equal(t, 5, sheet.Samples[0].Row)
	assert.Contains(t, sheet.Samples[0].Message, "Frequency")

	require.Len(t, gotItems, 2)
	first := gotItems[0]
	assert.Equal(t, "R100", first["code"])
	assert.Equal(t, "Magazzino", first["parent"])
	features, ok := first["features"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "ram", features["type"], "defaults apply to every row")
	assert.Equal(t, "Samsung", features["brand"])
	assert.Equal(t, float64(667000000), features["frequency-hertz"])

	second := gotItems[1]
	assert.NotContains(t, second, "code", "rows without a code let the server assign one")
	assert.Equal(t, "Chernobyl", second["parent"], "a location cell overrides the sheet parent")
}

func TestImport_DryRun(t *testing.T) {
	var called bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	workbook := testWorkbook(t, map[string][][]string{
		"RAM": {
			{"Code", "Brand"},
			{"R100", "Samsung"},
		},
	})

	client := newTestClient(t, server.URL)
	summary, err := Import(context.Background(), client, workbook, loadTestMapping(t), Options{DryRun: true})
	require.NoError(t, err)

	assert.False(t, called, "dry runs never reach the server")
	assert.False(t, summary.Submitted)
	assert.Equal(t, 1, summary.Items)
}

func TestImport_TooManyErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("aborted imports must not submit")
	}))
	defer server.Close()

	workbook := testWorkbook(t, map[string][][]string{
		"RAM": {
			{"Code", "Frequency"},
			{"R1", "one"},
			{"R2", "two"},
			{"R3", "three"},
		},
	})

	client := newTestClient(t, server.URL)
	summary, err := Import(context.Background(), client, workbook, loadTestMapping(t), Options{MaxErrors: 2})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "too many errors")
	assert.Equal(t, 3, summary.Errors)
}

func TestImport_GeneratedIdentifier(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	workbook := testWorkbook(t, map[string][][]string{
		"RAM": {
			{"Code", "Brand"},
			{"R100", "Samsung"},
		},
	})

	client := newTestClient(t, server.URL)
	summary, err := Import(context.Background(), client, workbook, loadTestMapping(t), Options{})
	require.NoError(t, err)

	assert.Len(t, summary.Identifier, 36, "generated identifiers are UUIDs")
}

func TestImport_DuplicateBatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// The server refuses reused identifiers without overwrite.
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	workbook := testWorkbook(t, map[string][][]string{
		"RAM": {
			{"Code", "Brand"},
			{"R100", "Samsung"},
		},
	})

	client := newTestClient(t, server.URL)
	summary, err := Import(context.Background(), client, workbook, loadTestMapping(t), Options{Identifier: "batch-1"})
	require.NoError(t, err)
	assert.False(t, summary.Submitted)
}

func TestConvertValue(t *testing.T) {
	tests := []struct {
		raw        string
		columnType string
		want       any
		wantErr    bool
	}{
		{"Samsung", TypeText, "Samsung", false},
		{"Samsung", "", "Samsung", false},
		{"667", TypeInteger, int64(667), false},
		{"667.0", TypeInteger, int64(667), false},
		{"667.5", TypeInteger, nil, true},
		{"lots", TypeInteger, nil, true},
		{"2.5", TypeDecimal, 2.5, false},
		{"many", TypeDecimal, nil, true},
	}

	for _, tt := range tests {
		got, err := convertValue(tt.raw, tt.columnType)
		if tt.wantErr {
			assert.Error(t, err, "%s as %s", tt.raw, tt.columnType)
			continue
		}
		require.NoError(t, err, "%s as %s", tt.raw, tt.columnType)
		assert.Equal(t, tt.want, got)
	}
}
