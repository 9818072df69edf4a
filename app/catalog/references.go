package catalog

import (
	"bufio"
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// DefaultSelector matches the item names on the saved ranking pages the
// bundled reference lists were extracted from.
const DefaultSelector = "p.Item__name___QfnBy"

var ErrNoReferences = errors.New("no reference names")

//go:embed references/*.txt
var referencesFS embed.FS

// DefaultReferences returns the embedded reference list for a category.
func DefaultReferences(category string) ([]string, error) {
	data, err := referencesFS.ReadFile("references/" + category + ".txt")
	if err != nil {
		return nil, fmt.Errorf("%w: no embedded list for %q", ErrNoReferences, category)
	}
	return parseReferences(bytes.NewReader(data))
}

// LoadReferences reads one name per line; blank lines are skipped.
func LoadReferences(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open reference list: %w", err)
	}
	defer f.Close()

	refs, err := parseReferences(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return refs, nil
}

func parseReferences(r io.Reader) ([]string, error) {
	var refs []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		refs = append(refs, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read reference list: %w", err)
	}
	if len(refs) == 0 {
		return nil, ErrNoReferences
	}
	return refs, nil
}

// ExtractReferences collects the text of every node matching selector, in
// document order, skipping blanks and repeats.
func ExtractReferences(r io.Reader, selector string) ([]string, error) {
	if selector == "" {
		selector = DefaultSelector
	}

	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	seen := make(map[string]struct{})
	var names []string
	doc.Find(selector).Each(func(_ int, s *goquery.Selection) {
		name := strings.Join(strings.Fields(s.Text()), " ")
		if name == "" {
			return
		}
		if _, ok := seen[name]; ok {
			return
		}
		seen[name] = struct{}{}
		names = append(names, name)
	})

	return names, nil
}
