package ingest

import (
	"archive/zip"
	"compress/gzip"
	"context"
	"database/sql"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pierrec/lz4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pivolan/sales_insights/domain/models"
)

const sample = "Date,Region,Product Category,Sales\n2024-01-01,east,toys,10\n2024-01-02,west,books,5\n"

func TestCanonicalHeaders(t *testing.T) {
	tests := []struct {
		name  string
		input []string
		want  []string
	}{
		{
			name:  "canonical names",
			input: []string{"Date", "Region", "Product_Category", "Customer_Rating"},
			want:  []string{"Date", "Region", "Product_Category", "Customer_Rating"},
		},
		{
			name:  "spaces and case",
			input: []string{" product category ", "CUSTOMER RATING", "sales-person", "SALES"},
			want:  []string{"Product_Category", "Customer_Rating", "Salesperson", "Sales"},
		},
		{
			name:  "byte order mark and symbols",
			input: []string{"\ufeffDate", "Discount (%)", "Profit $"},
			want:  []string{"Date", "Discount", "Profit"},
		},
		{
			name:  "transliteration",
			input: []string{"Régïon", "Prodüct"},
			want:  []string{"Region", "Product"},
		},
		{
			name:  "unknown kept verbatim",
			input: []string{"Order ID", " Notes "},
			want:  []string{"Order ID", "Notes"},
		},
		{
			name:  "blank and duplicate",
			input: []string{"", "Sales", "sales", "Sales"},
			want:  []string{"column_1", "Sales", "Sales_1", "Sales_2"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanonicalHeaders(tt.input))
		})
	}
}

func TestReadCSV(t *testing.T) {
	raw, err := ReadCSV(strings.NewReader(sample), "sample.csv")
	require.NoError(t, err)
	assert.Equal(t, []string{"Date", "Region", "Product_Category", "Sales"}, raw.Columns)
	assert.Equal(t, [][]string{
		{"2024-01-01", "east", "toys", "10"},
		{"2024-01-02", "west", "books", "5"},
	}, raw.Rows)
}

func TestReadCSVHeaderOnly(t *testing.T) {
	raw, err := ReadCSV(strings.NewReader("Sales,Region\n"), "h.csv")
	require.NoError(t, err)
	assert.Equal(t, []string{"Sales", "Region"}, raw.Columns)
	assert.Empty(t, raw.Rows)
}

func TestReadCSVQuotedFields(t *testing.T) {
	raw, err := ReadCSV(strings.NewReader("Product,Sales\n\"Kite, large\",10\n\"say \"\"hi\"\"\",5\n"), "q.csv")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"Kite, large", "10"}, {`say "hi"`, "5"}}, raw.Rows)
}

func TestReadCSVDataFormatErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"ragged row", "Sales,Region\n1,east\n2\n"},
		{"unbalanced quotes", "Sales\n1\n\"a\"b,\"c\n"},
		{"quote before separator", "Region,Sales\n\"east\" ,10\n\"west\",5\n"},
		{"bare quote", "Region,Sales\nea\"st,10\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadCSV(strings.NewReader(tt.input), "bad.csv")
			require.Error(t, err)
			assert.True(t, models.IsDataFormat(err), err.Error())
			assert.Contains(t, err.Error(), "bad.csv")
		})
	}
}

func writeFile(t *testing.T, name string, write func(w io.Writer)) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	f, err := os.Create(path)
	require.NoError(t, err)
	write(f)
	require.NoError(t, f.Close())
	return path
}

func TestReadFileArchives(t *testing.T) {
	paths := map[string]string{
		"plain": writeFile(t, "sales.csv", func(w io.Writer) {
			_, _ = io.WriteString(w, sample)
		}),
		"gzip": writeFile(t, "sales.csv.gz", func(w io.Writer) {
			gw := gzip.NewWriter(w)
			_, _ = io.WriteString(gw, sample)
			require.NoError(t, gw.Close())
		}),
		"lz4": writeFile(t, "sales.csv.lz4", func(w io.Writer) {
			lw := lz4.NewWriter(w)
			_, _ = io.WriteString(lw, sample)
			require.NoError(t, lw.Close())
		}),
		"zip": writeFile(t, "sales.zip", func(w io.Writer) {
			zw := zip.NewWriter(w)
			small, err := zw.Create("readme.txt")
			require.NoError(t, err)
			_, _ = io.WriteString(small, "x")
			big, err := zw.Create("data/sales.csv")
			require.NoError(t, err)
			_, _ = io.WriteString(big, sample)
			require.NoError(t, zw.Close())
		}),
	}
	for name, path := range paths {
		t.Run(name, func(t *testing.T) {
			raw, err := ReadFile(path)
			require.NoError(t, err)
			assert.Equal(t, []string{"Date", "Region", "Product_Category", "Sales"}, raw.Columns)
			assert.Len(t, raw.Rows, 2)
		})
	}
}

func TestReadFileErrors(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "missing.csv"))
	require.Error(t, err)
	assert.False(t, models.IsDataFormat(err))

	notGzip := writeFile(t, "sales.csv.gz", func(w io.Writer) {
		_, _ = io.WriteString(w, sample)
	})
	_, err = ReadFile(notGzip)
	assert.True(t, models.IsDataFormat(err))

	notZip := writeFile(t, "sales.zip", func(w io.Writer) {
		_, _ = io.WriteString(w, sample)
	})
	_, err = ReadFile(notZip)
	assert.True(t, models.IsDataFormat(err))
}

func TestIsArchive(t *testing.T) {
	assert.True(t, IsArchive("a.ZIP"))
	assert.True(t, IsArchive("a.csv.gz"))
	assert.True(t, IsArchive("a.csv.lz4"))
	assert.False(t, IsArchive("a.csv"))
}

func TestReadTableRejectsBadNames(t *testing.T) {
	for _, name := range []string{"", "sales; DROP TABLE x", "1sales", "a.b.c", "sales--"} {
		_, err := ReadTable(nil, name)
		assert.True(t, models.IsDataFormat(err), name)
		_, err = ReadSQL(context.Background(), nil, name)
		assert.True(t, models.IsDataFormat(err), name)
		_, err = ReadDatabase(context.Background(), "postgres://localhost/db", name)
		assert.True(t, models.IsDataFormat(err), name)
	}
	assert.NoError(t, checkTableName("default.sales_data"))
}

func TestReadSQLQueryFailure(t *testing.T) {
	db, err := sql.Open("pgx", "postgres://localhost/sales")
	require.NoError(t, err)
	require.NoError(t, db.Close())

	_, err = ReadSQL(context.Background(), db, "sales")
	require.Error(t, err)
	assert.True(t, models.IsDataFormat(err), err.Error())
	assert.Contains(t, err.Error(), "sales: query failed")
}

func TestIsPostgres(t *testing.T) {
	assert.True(t, IsPostgres("postgres://user@localhost/sales"))
	assert.True(t, IsPostgres("postgresql://localhost/sales"))
	assert.False(t, IsPostgres("default:pass@tcp(127.0.0.1:9004)/default"))
}
