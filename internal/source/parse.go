package source

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/alexisbeaulieu97/bookconnect/internal/catalog"
	bcerrors "github.com/alexisbeaulieu97/bookconnect/pkg/errors"
)

//go:embed data/catalog.yaml
var embedded embed.FS

const embeddedName = "data/catalog.yaml"

// document mirrors the on-disk layout. PageSize is a pointer so an absent key
// can be told apart from an explicit zero.
type document struct {
	PageSize *int             `yaml:"page_size" json:"page_size"`
	Authors  NameTable        `yaml:"authors" json:"authors"`
	Genres   NameTable        `yaml:"genres" json:"genres"`
	Books    []catalog.Record `yaml:"books" json:"books"`
}

var (
	validatorOnce sync.Once
	validateInst  *validator.Validate
)

func validatorInstance() *validator.Validate {
	validatorOnce.Do(func() {
		validateInst = validator.New()
	})
	return validateInst
}

// Parse decodes a YAML or JSON catalog document. origin is used in errors and
// to pick the decoder: a .json name or a leading '{' selects JSON.
func Parse(data []byte, origin string) (*Catalog, error) {
	var doc document
	if isJSON(data, origin) {
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, bcerrors.NewParseError(origin, jsonErrorLine(data, err), err)
		}
	} else {
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, bcerrors.NewParseError(origin, bcerrors.YAMLLine(err), err)
		}
	}

	if err := validateTable("authors", doc.Authors); err != nil {
		return nil, err
	}
	if err := validateTable("genres", doc.Genres); err != nil {
		return nil, err
	}

	pageSize := DefaultPageSize
	if doc.PageSize != nil {
		pageSize = *doc.PageSize
	}

	books := doc.Books
	if books == nil {
		books = []catalog.Record{}
	}

	return &Catalog{
		Books:    books,
		Authors:  doc.Authors,
		Genres:   doc.Genres,
		PageSize: pageSize,
		Origin:   origin,
	}, nil
}

// LoadFile reads and parses a catalog document from disk.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, bcerrors.NewSourceError(path, err)
	}
	return Parse(data, path)
}

// Default returns the sample catalog compiled into the binary.
func Default() (*Catalog, error) {
	data, err := embedded.ReadFile(embeddedName)
	if err != nil {
		return nil, bcerrors.NewSourceError("embedded", err)
	}
	cat, err := Parse(data, "embedded:"+filepath.Base(embeddedName))
	if err != nil {
		return nil, fmt.Errorf("embedded catalog is corrupt: %w", err)
	}
	return cat, nil
}

func validateTable(name string, table NameTable) error {
	for i, entry := range table.Entries() {
		entry.ID = strings.TrimSpace(entry.ID)
		entry.Name = strings.TrimSpace(entry.Name)
		if err := validatorInstance().Struct(entry); err != nil {
			field := fmt.Sprintf("%s[%d]", name, i)
			var ves validator.ValidationErrors
			if errors.As(err, &ves) && len(ves) > 0 {
				field += "." + strings.ToLower(ves[0].Field())
			}
			return bcerrors.NewValidationError(field, fmt.Sprintf("%s entries need a non-empty id and name", name), err)
		}
	}
	return nil
}

func isJSON(data []byte, origin string) bool {
	if strings.EqualFold(filepath.Ext(origin), ".json") {
		return true
	}
	return bytes.HasPrefix(bytes.TrimSpace(data), []byte("{"))
}

func jsonErrorLine(data []byte, err error) int {
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return bcerrors.JSONLine(data, syntaxErr.Offset)
	}
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return bcerrors.JSONLine(data, typeErr.Offset)
	}
	return 0
}
