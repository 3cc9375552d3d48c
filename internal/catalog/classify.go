package catalog

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// EntryType is the kind of program a catalog page describes.
type EntryType string

// Catalog entry types.
const (
	EntryMajor         EntryType = "major"
	EntryMinor         EntryType = "minor"
	EntryConcentration EntryType = "concentration"
	EntryCertificate   EntryType = "certificate"
	EntryUnknown       EntryType = "unknown"
)

// degreeSuffix matches titles such as "Computer Science, BSCS".
var degreeSuffix = regexp.MustCompile(`,\s*B[A-Z]{1,6}\b`)

// Title returns the page title of a catalog entry.
func Title(doc *goquery.Document) string {
	if t := ParseText(doc.Find("h1.page-title").First()); t != "" {
		return t
	}
	t := ParseText(doc.Find("title").First())
	if before, _, found := strings.Cut(t, "<"); found {
		t = strings.TrimSpace(before)
	}
	return t
}

// ClassifyPage decides what kind of entry doc describes from its title.
func ClassifyPage(doc *goquery.Document) EntryType {
	title := Title(doc)
	lower := strings.ToLower(title)
	switch {
	case strings.Contains(lower, "minor"):
		return EntryMinor
	case strings.Contains(lower, "concentration"):
		return EntryConcentration
	case strings.Contains(lower, "certificate"):
		return EntryCertificate
	case degreeSuffix.MatchString(title), strings.Contains(lower, "major"):
		return EntryMajor
	default:
		return EntryUnknown
	}
}
