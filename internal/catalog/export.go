package catalog

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Marshal encodes a book list to YAML, for `books --output yaml`.
func Marshal(books []Book) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(books); err != nil {
		return nil, fmt.Errorf("encoding books: %w", err)
	}
	return buf.Bytes(), nil
}

// Parse decodes YAML produced by Marshal.
func Parse(data []byte) ([]Book, error) {
	if len(data) == 0 {
		return []Book{}, nil
	}
	var books []Book
	if err := yaml.Unmarshal(data, &books); err != nil {
		return nil, fmt.Errorf("parsing books YAML: %w", err)
	}
	if books == nil {
		return []Book{}, nil
	}
	return books, nil
}
