package bilingual

import (
	"encoding/json"
	"fmt"

	"golang.org/x/text/language"
)

// Localize returns v as generic JSON with every bilingual value collapsed to
// the string for tag.
func Localize(v interface{}, tag language.Tag) (interface{}, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("localize: %w", err)
	}
	var doc interface{}
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("localize: %w", err)
	}
	return collapse(doc, tag), nil
}

func collapse(v interface{}, tag language.Tag) interface{} {
	switch node := v.(type) {
	case map[string]interface{}:
		if en, ok := bilingualPair(node); ok {
			mr, _ := node["mr"].(string)
			return Text{En: en, Mr: mr}.Localized(tag)
		}
		for k, child := range node {
			node[k] = collapse(child, tag)
		}
		return node
	case []interface{}:
		for i, child := range node {
			node[i] = collapse(child, tag)
		}
		return node
	default:
		return v
	}
}
