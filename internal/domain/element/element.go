package element

import (
	"encoding/json"
	"fmt"
)

// Category tags an extracted element with its structural role.
type Category string

const (
	// Title is a heading element.
	Title Category = "Title"
	// NarrativeText is a prose paragraph.
	NarrativeText Category = "NarrativeText"
	// ListItem is a single list entry.
	ListItem Category = "ListItem"
	// Table is tabular content rendered as text.
	Table Category = "Table"
	// Other is any category the extractor does not classify further.
	Other Category = "Other"
)

// Element is one typed unit produced by the extraction port. Elements are
// transient: they exist only between extraction and artifact derivation.
type Element struct {
	Category Category `json:"category"`
	Text     string   `json:"text"`
}

// MarshalElements serializes the element sequence losslessly. The encoding is
// a plain JSON array in extraction order, so identical extractions produce
// identical artifacts.
func MarshalElements(elements []Element) ([]byte, error) {
	data, err := json.Marshal(elements)
	if err != nil {
		return nil, fmt.Errorf("marshal elements: %w", err)
	}
	return data, nil
}

// UnmarshalElements parses a structured-element artifact back into elements.
func UnmarshalElements(data []byte) ([]Element, error) {
	var elements []Element
	if err := json.Unmarshal(data, &elements); err != nil {
		return nil, fmt.Errorf("unmarshal elements: %w", err)
	}
	return elements, nil
}
