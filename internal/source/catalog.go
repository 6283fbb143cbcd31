package source

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/alexisbeaulieu97/bookconnect/internal/catalog"
)

// DefaultPageSize is used when a catalog document does not set page_size.
const DefaultPageSize = 36

// Catalog is a decoded catalog document.
type Catalog struct {
	Books    []catalog.Record
	Authors  NameTable
	Genres   NameTable
	PageSize int

	// Origin names where the document was read from.
	Origin string
}

// DuplicateIDs lists ids carried by more than one record, in first-seen order.
func (c *Catalog) DuplicateIDs() []string {
	seen := make(map[string]int, len(c.Books))
	var dups []string
	for _, rec := range c.Books {
		if rec.ID == "" {
			continue
		}
		seen[rec.ID]++
		if seen[rec.ID] == 2 {
			dups = append(dups, rec.ID)
		}
	}
	return dups
}

// Entry is a single id to display-name mapping.
type Entry struct {
	ID   string `validate:"required"`
	Name string `validate:"required"`
}

// NameTable maps author or genre ids to display names, keeping document order.
type NameTable struct {
	entries []Entry
	index   map[string]int
}

// NewNameTable builds a table from entries. Later duplicates replace the name
// of the first occurrence without moving it.
func NewNameTable(entries ...Entry) NameTable {
	var t NameTable
	for _, e := range entries {
		t.add(e)
	}
	return t
}

func (t *NameTable) add(e Entry) {
	if t.index == nil {
		t.index = make(map[string]int)
	}
	if i, ok := t.index[e.ID]; ok {
		t.entries[i].Name = e.Name
		return
	}
	t.index[e.ID] = len(t.entries)
	t.entries = append(t.entries, e)
}

// Name returns the display name for id.
func (t NameTable) Name(id string) (string, bool) {
	i, ok := t.index[id]
	if !ok {
		return "", false
	}
	return t.entries[i].Name, true
}

// Entries returns a copy of the entries in document order.
func (t NameTable) Entries() []Entry {
	out := make([]Entry, len(t.entries))
	copy(out, t.entries)
	return out
}

// Len returns the number of entries.
func (t NameTable) Len() int {
	return len(t.entries)
}

// UnmarshalYAML decodes a mapping node. Both YAML and JSON objects arrive here.
func (t *NameTable) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode && node.Tag == "!!null" {
		*t = NameTable{}
		return nil
	}
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: expected a mapping of id to name", node.Line)
	}

	table := NameTable{}
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], node.Content[i+1]
		var name string
		if err := value.Decode(&name); err != nil {
			return fmt.Errorf("line %d: name for %q: %w", value.Line, key.Value, err)
		}
		table.add(Entry{ID: key.Value, Name: name})
	}
	*t = table
	return nil
}

// UnmarshalJSON decodes a JSON object token by token so key order survives.
func (t *NameTable) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*t = NameTable{}
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("expected an object of id to name, got %v", tok)
	}

	table := NameTable{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := keyTok.(string)

		var name string
		if err := dec.Decode(&name); err != nil {
			return fmt.Errorf("name for %q: %w", key, err)
		}
		table.add(Entry{ID: key, Name: name})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*t = table
	return nil
}
