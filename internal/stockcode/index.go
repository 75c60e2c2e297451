package stockcode

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"regexp"
)

// None is returned by Lookup for unknown company names.
const None = "none"

var ErrEmptyListing = errors.New("listing has no data rows")

// Row is one listing row: company name and stock code cells.
type Row struct {
	Name string
	Code string
}

// Index maps company names to stock codes.
type Index struct {
	codes map[string]string
}

// Build skips the header row and inserts every remaining row. A repeated
// name overwrites the earlier entry.
func Build(rows []Row) *Index {
	idx := &Index{codes: make(map[string]string)}
	if len(rows) == 0 {
		return idx
	}
	for _, r := range rows[1:] {
		idx.codes[r.Name] = r.Code
	}
	return idx
}

// Lookup returns the code for name, or None.
func (idx *Index) Lookup(name string) string {
	if idx == nil {
		return None
	}
	if code, ok := idx.codes[name]; ok {
		return code
	}
	return None
}

// Len returns the number of distinct names.
func (idx *Index) Len() int {
	if idx == nil {
		return 0
	}
	return len(idx.codes)
}

// Save writes the index as a pretty-printed JSON object.
func (idx *Index) Save(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(idx.codes); err != nil {
		return fmt.Errorf("encode stock codes: %w", err)
	}
	return nil
}

// Load reads an index previously written by Save.
func Load(r io.Reader) (*Index, error) {
	codes := make(map[string]string)
	if err := json.NewDecoder(r).Decode(&codes); err != nil {
		return nil, fmt.Errorf("decode stock codes: %w", err)
	}
	return &Index{codes: codes}, nil
}

var companyPattern = regexp.MustCompile(`:\s*(.*?)\(`)

// CompanyName extracts the name between the first colon and the next open
// parenthesis of a company annotation line.
func CompanyName(annotation string) (string, bool) {
	m := companyPattern.FindStringSubmatch(annotation)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// LookupAnnotation resolves the code for a company annotation line.
func (idx *Index) LookupAnnotation(annotation string) string {
	name, ok := CompanyName(annotation)
	if !ok {
		return None
	}
	return idx.Lookup(name)
}
