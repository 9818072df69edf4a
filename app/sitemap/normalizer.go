package sitemap

import (
	"regexp"
	"strings"

	"github.com/lysyi3m/compare-sitemaps/app/catalog"
	"golang.org/x/text/unicode/norm"
)

var (
	// Storage or storage+RAM qualifiers: "... 256GB", "... 12GB RAM", "... 8 GB RAM".
	variantSuffix = regexp.MustCompile(`\s+(?:\d+GB|\d+\s*GB\s*RAM)`)
	whitespaceRun = regexp.MustCompile(`\s+`)
)

// Slug trims the name and replaces each whitespace run with a single dash.
// Existing dashes are left alone.
func Slug(name string) string {
	return whitespaceRun.ReplaceAllString(strings.TrimSpace(norm.NFC.String(name)), "-")
}

// StripVariant cuts a phone name at its first storage/RAM qualifier.
func StripVariant(name string) string {
	if loc := variantSuffix.FindStringIndex(name); loc != nil {
		return name[:loc[0]]
	}
	return name
}

// NormalizeName derives the slug for one record. A catalog.ErrFieldMissing
// error means the record has no usable name and should be skipped.
func NormalizeName(record catalog.Record, category catalog.Category) (string, error) {
	name, err := record.Field(category.Entity, category.Field)
	if err != nil {
		return "", err
	}

	if category.StripVariants {
		name = StripVariant(name)
	}

	return Slug(name), nil
}
