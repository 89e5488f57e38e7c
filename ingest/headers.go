package ingest

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/mozillazg/go-unidecode"

	"github.com/pivolan/sales_insights/domain/models"
)

var specialSymbols = regexp.MustCompile("[^a-zA-Z0-9]+")

// canonical maps a folded header to its canonical field name.
var canonical = func() map[string]string {
	m := make(map[string]string, len(models.KnownFields))
	for _, f := range models.KnownFields {
		m[foldHeader(f)] = f
	}
	// common spellings seen in sales exports
	m["category"] = models.FieldProductCategory
	m["rating"] = models.FieldCustomerRating
	m["sales_person"] = models.FieldSalesperson
	m["sales_rep"] = models.FieldSalesperson
	return m
}()

// foldHeader transliterates to ASCII, replaces runs of non-alphanumerics
// with underscores and lower-cases: "Product  Category!" -> "product_category".
func foldHeader(header string) string {
	s := unidecode.Unidecode(trimHeader(header))
	s = specialSymbols.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	return strings.ToLower(s)
}

// CanonicalHeaders maps recognised headers onto canonical field names and
// keeps the rest trimmed but otherwise verbatim. Blank headers become
// column_N and duplicates get a numeric suffix, so the result is always a
// valid column set.
func CanonicalHeaders(headers []string) []string {
	out := make([]string, len(headers))
	for i, h := range headers {
		if f, ok := canonical[foldHeader(h)]; ok {
			out[i] = f
			continue
		}
		h = trimHeader(h)
		if h == "" {
			h = fmt.Sprintf("column_%d", i+1)
		}
		out[i] = h
	}
	return dedupe(out)
}

// trimHeader drops surrounding space and the byte order mark spreadsheet
// exports put in front of the first header.
func trimHeader(h string) string {
	return strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
}

func dedupe(headers []string) []string {
	seen := make(map[string]bool, len(headers))
	result := make([]string, len(headers))
	for i, header := range headers {
		name := header
		for counter := 1; seen[name]; counter++ {
			name = fmt.Sprintf("%s_%d", header, counter)
		}
		seen[name] = true
		result[i] = name
	}
	return result
}
