package jsonfile_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luisescardovelliTech/caixaBingoNicolas/register"
	"github.com/luisescardovelliTech/caixaBingoNicolas/store/jsonfile"
)

func writeDoc(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "produtos.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func price(t *testing.T, prices map[string]decimal.Decimal, name, want string) {
	t.Helper()
	got, ok := prices[name]
	require.True(t, ok, "missing %s", name)
	assert.Truef(t, got.Equal(decimal.RequireFromString(want)), "%s: want %s got %s", name, want, got)
}

// =============================================================================
// CATALOG LOAD
// =============================================================================

func TestLoad_FlatMap(t *testing.T) {
	path := writeDoc(t, `{"Pastel": 10.0, "Quentão": "8,50"}`)

	prices, err := jsonfile.NewCatalogFile(path).Load(context.Background())

	require.NoError(t, err)
	assert.Len(t, prices, 2)
	price(t, prices, "Pastel", "10")
	price(t, prices, "Quentão", "8.5")
}

func TestLoad_RecordList(t *testing.T) {
	path := writeDoc(t, `[{"name": "Pastel", "price": 10}, {"nome": "Cerveja", "preco": 12.5}]`)

	prices, err := jsonfile.NewCatalogFile(path).Load(context.Background())

	require.NoError(t, err)
	price(t, prices, "Pastel", "10")
	price(t, prices, "Cerveja", "12.5")
}

func TestLoad_Malformed(t *testing.T) {
	docs := map[string]string{
		"not json":        `{"Pastel": `,
		"scalar":          `42`,
		"zero price":      `{"Pastel": 0}`,
		"bad string":      `{"Pastel": "dez"}`,
		"record no name":  `[{"price": 10}]`,
		"record no price": `[{"name": "Pastel"}]`,
		"bool price":      `{"Pastel": true}`,
		"trailing text":   `{"Pastel": 10} this is not json`,
		"second value":    `{"Pastel": 10} {"Cerveja": 12}`,
		"blank name":      `{"  ": 10}`,
		"trimmed twice":   `{" Pastel ": 10, "Pastel": 11}`,
		"record repeated": `[{"name": "Pastel", "price": 10}, {"name": "Pastel ", "price": 11}]`,
	}
	for name, doc := range docs {
		t.Run(name, func(t *testing.T) {
			_, err := jsonfile.NewCatalogFile(writeDoc(t, doc)).Load(context.Background())
			assert.ErrorIs(t, err, jsonfile.ErrMalformed)
		})
	}
}

func TestLoad_TrimsNames(t *testing.T) {
	path := writeDoc(t, `{" Pastel ": 10, "Cerveja\t": "12,00"}`)

	prices, err := jsonfile.NewCatalogFile(path).Load(context.Background())

	require.NoError(t, err)
	assert.Len(t, prices, 2)
	price(t, prices, "Pastel", "10")
	price(t, prices, "Cerveja", "12")
}

func TestOpenCatalog_MalformedFileYieldsExactlyDefaults(t *testing.T) {
	path := writeDoc(t, `[{"name": "Bolo", "price": 5}, {"name": "Quebrado"}]`)

	catalog := register.OpenCatalog(context.Background(), jsonfile.NewCatalogFile(path), nil)

	products := catalog.List()
	require.Len(t, products, 3)
	names := []string{products[0].Name, products[1].Name, products[2].Name}
	assert.Equal(t, []string{"Cerveja", "Pastel", "Refrigerante"}, names)
}

func TestOpenCatalog_MissingFileYieldsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nao-existe.json")

	catalog := register.OpenCatalog(context.Background(), jsonfile.NewCatalogFile(path), nil)

	assert.Equal(t, 3, catalog.Len())
}

// =============================================================================
// CATALOG SAVE
// =============================================================================

func TestSave_RoundTripsThroughCatalog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "produtos.json")
	file := jsonfile.NewCatalogFile(path)
	ctx := context.Background()

	catalog := register.OpenCatalog(ctx, file, nil)
	require.NoError(t, catalog.Upsert(ctx, "Quentão", decimal.RequireFromString("8.5")))
	require.NoError(t, catalog.Remove(ctx, "Cerveja"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"Pastel\": 10,\n  \"Quentão\": 8.5,\n  \"Refrigerante\": 6\n}\n", string(data))

	reopened := register.OpenCatalog(ctx, file, nil).List()
	require.Len(t, reopened, 3)
	for i, p := range catalog.List() {
		assert.Equal(t, p.Name, reopened[i].Name)
		assert.True(t, p.UnitPrice.Equal(reopened[i].UnitPrice), p.Name)
	}
}

func TestSave_EmptyCatalog(t *testing.T) {
	data, err := jsonfile.EncodeCatalog(map[string]decimal.Decimal{})
	require.NoError(t, err)
	assert.Equal(t, "{}\n", string(data))

	prices, err := jsonfile.DecodeCatalog(data)
	require.NoError(t, err)
	assert.Empty(t, prices)
}

func TestSave_FileMode(t *testing.T) {
	ctx := context.Background()

	t.Run("new file is world readable", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "produtos.json")
		require.NoError(t, jsonfile.NewCatalogFile(path).Save(ctx, register.DefaultPrices()))

		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())
	})

	t.Run("existing mode is kept", func(t *testing.T) {
		path := writeDoc(t, `{}`)
		require.NoError(t, os.Chmod(path, 0o640))
		require.NoError(t, jsonfile.NewCatalogFile(path).Save(ctx, register.DefaultPrices()))

		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o640), info.Mode().Perm())
	})
}

func TestSave_UnwritableDirectoryFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing-dir", "produtos.json")
	err := jsonfile.NewCatalogFile(path).Save(context.Background(), register.DefaultPrices())
	assert.Error(t, err)
}

// =============================================================================
// SESSION EXPORT
// =============================================================================

func TestExportSession(t *testing.T) {
	ledger := register.NewLedger()
	ledger.Append(register.Sale{
		Items: []register.LineItem{
			{ProductName: "Pastel", Quantity: 3, UnitPrice: decimal.NewFromInt(10)},
		},
		PaymentMethod:  register.PaymentCash,
		Total:          decimal.NewFromInt(30),
		AmountReceived: decimal.NewFromInt(50),
		Change:         decimal.NewFromInt(20),
		Timestamp:      time.Date(2025, 6, 14, 19, 5, 7, 0, time.UTC),
	})
	id := uuid.MustParse("7b7d0d5c-3f5e-4d8a-9b61-0a4f6a1c2e11")
	path := filepath.Join(t.TempDir(), "vendas.json")

	require.NoError(t, jsonfile.ExportSession(path, id, ledger, time.Date(2025, 6, 14, 23, 0, 0, 0, time.UTC)))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))

	assert.Equal(t, id.String(), doc["session_id"])
	sales := doc["sales"].([]any)
	require.Len(t, sales, 1)
	s := sales[0].(map[string]any)
	assert.Equal(t, "cash", s["payment_method"])
	assert.Equal(t, "2025-06-14T19:05:07", s["timestamp"])
	assert.Equal(t, 20.0, s["change"])
	items := s["items"].([]any)
	assert.Equal(t, 30.0, items[0].(map[string]any)["subtotal"])
	assert.Equal(t, 30.0, doc["totals"].(map[string]any)["grand_total"])
}

func TestSuggestedFilename(t *testing.T) {
	at := time.Date(2025, time.June, 14, 21, 5, 59, 0, time.UTC)
	assert.Equal(t, "vendas_2025-06-14_21-05.json", jsonfile.SuggestedFilename(at))
}
