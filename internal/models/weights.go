package models

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// CategoryWeight is the importance multiplier of one media category
type CategoryWeight struct {
	Category MediaCategory
	Weight   float64
}

// CategoryWeights is the ordered weight configuration. Order is the order in which
// categories were configured and drives the order of the aggregated summaries.
type CategoryWeights []CategoryWeight

// Lookup returns the configured weight of a category
func (w CategoryWeights) Lookup(category MediaCategory) (float64, bool) {
	for _, cw := range w {
		if cw.Category == category {
			return cw.Weight, true
		}
	}
	return 0, false
}

// Categories returns the configured categories in order
func (w CategoryWeights) Categories() []MediaCategory {
	categories := make([]MediaCategory, 0, len(w))
	for _, cw := range w {
		categories = append(categories, cw.Category)
	}
	return categories
}

// UnmarshalYAML decodes a YAML mapping keeping the document order
func (w *CategoryWeights) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("media weights must be a mapping (line %d)", node.Line)
	}

	weights := make(CategoryWeights, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], node.Content[i+1]

		var weight float64
		if err := value.Decode(&weight); err != nil {
			return fmt.Errorf("invalid weight for %q (line %d): %w", key.Value, value.Line, err)
		}
		weights = append(weights, CategoryWeight{Category: MediaCategory(key.Value), Weight: weight})
	}

	*w = weights
	return nil
}

// UnmarshalJSON decodes a JSON object keeping the document order
func (w *CategoryWeights) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("media weights must be a JSON object")
	}

	var weights CategoryWeights
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("unexpected media weights key %v", keyTok)
		}

		var weight float64
		if err := dec.Decode(&weight); err != nil {
			return fmt.Errorf("invalid weight for %q: %w", key, err)
		}
		weights = append(weights, CategoryWeight{Category: MediaCategory(key), Weight: weight})
	}

	if _, err := dec.Token(); err != nil {
		return err
	}

	*w = weights
	return nil
}

// MarshalJSON encodes the weights as an ordered JSON object
func (w CategoryWeights) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, cw := range w {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(string(cw.Category))
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(cw.Weight)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
