// Package fields locates semantic fields in rows whose headers vary between
// files, languages and form revisions.
package fields

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/mauv0809/tournament-importer/internal/normalize"
)

//go:embed synonyms.yaml
var defaultSynonyms []byte

// Resolver finds field values in rows using a synonym table.
type Resolver struct {
	table Table
}

// New creates a Resolver for the given table. Patterns are folded once here.
func New(table Table) *Resolver {
	folded := make(Table, len(table))
	for f, m := range table {
		folded[f] = Matcher{
			Synonyms: foldAll(m.Synonyms),
			Exclude:  foldAll(m.Exclude),
		}
	}
	return &Resolver{table: folded}
}

// Default returns a Resolver using the built-in synonym table.
func Default() *Resolver {
	return New(DefaultTable())
}

// LoadTable reads a synonym table from a YAML file.
func LoadTable(path string) (Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading synonym file: %w", err)
	}
	return ParseTable(data)
}

// ParseTable decodes a YAML synonym table keyed by field name.
func ParseTable(data []byte) (Table, error) {
	var raw map[string]Matcher
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing synonym table: %w", err)
	}
	table := make(Table, len(raw))
	for name, m := range raw {
		f, ok := ParseField(name)
		if !ok {
			return nil, fmt.Errorf("unknown field %q in synonym table", name)
		}
		if len(m.Synonyms) == 0 {
			return nil, fmt.Errorf("field %q has no synonyms", name)
		}
		table[f] = m
	}
	return table, nil
}

// Merge returns a copy of the table with the fields of override replacing its own.
func (t Table) Merge(override Table) Table {
	merged := make(Table, len(t)+len(override))
	for f, m := range t {
		merged[f] = m
	}
	for f, m := range override {
		merged[f] = m
	}
	return merged
}

// DefaultTable returns the built-in synonym table.
func DefaultTable() Table {
	table, err := ParseTable(defaultSynonyms)
	if err != nil {
		panic(fmt.Sprintf("fields: built-in synonym table is invalid: %v", err))
	}
	return table
}

// Lookup returns the trimmed value of the first column whose header matches
// the field. An empty value counts as absent.
func (r *Resolver) Lookup(row Row, field Field) (string, bool) {
	for _, cell := range row.Cells {
		if !r.matches(cell.Header, field) {
			continue
		}
		v := strings.TrimSpace(cell.Value)
		if v == "" {
			return "", false
		}
		return v, true
	}
	return "", false
}

// Value is Lookup without the presence flag.
func (r *Resolver) Value(row Row, field Field) string {
	v, _ := r.Lookup(row, field)
	return v
}

// Missing returns the fields no header in headers can satisfy.
func (r *Resolver) Missing(headers []string, fields ...Field) []Field {
	var missing []Field
	for _, f := range fields {
		found := false
		for _, h := range headers {
			if r.matches(h, f) {
				found = true
				break
			}
		}
		if !found {
			missing = append(missing, f)
		}
	}
	return missing
}

func (r *Resolver) matches(header string, field Field) bool {
	m, ok := r.table[field]
	if !ok {
		return false
	}
	h := normalize.Fold(header)
	for _, ex := range m.Exclude {
		if strings.Contains(h, ex) {
			return false
		}
	}
	for _, syn := range m.Synonyms {
		if strings.Contains(h, syn) {
			return true
		}
	}
	return false
}

func foldAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if f := normalize.Fold(s); f != "" {
			out = append(out, f)
		}
	}
	return out
}
