// Package catalog compiles catalog HTML into requirement trees: it
// classifies and parses course-list rows, groups them into requirement
// groups, classifies whole catalog pages, and manages the crawled catalog
// hierarchy.
package catalog

import (
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

const nbsp = "\u00a0"

// ParseDocument parses an HTML page into a queryable document.
func ParseDocument(r io.Reader) (*goquery.Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("catalog: parse html: %w", err)
	}
	return goquery.NewDocumentFromNode(root), nil
}

// ParseText returns the text of s with non-breaking spaces replaced by
// spaces and surrounding whitespace trimmed.
func ParseText(s *goquery.Selection) string {
	return strings.TrimSpace(strings.ReplaceAll(s.Text(), nbsp, " "))
}

var firstNumber = regexp.MustCompile(`\d+`)

// parseHours returns the first integer in text.
func parseHours(text string) (int, bool) {
	m := firstNumber.FindString(text)
	if m == "" {
		return 0, false
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return 0, false
	}
	return n, true
}

// EnsureLength returns l if it has exactly n elements.
func EnsureLength[T any](n int, l []T) ([]T, error) {
	if len(l) != n {
		return nil, fmt.Errorf("catalog: expected exactly %d parts, found %d", n, len(l))
	}
	return l, nil
}
