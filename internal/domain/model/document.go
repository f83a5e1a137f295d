package model

import (
	"encoding/json"
	"fmt"
	"time"
)

// Document is one stored record: its id, the raw JSON body and the
// timestamps the store maintains.
type Document struct {
	ID        string          `json:"id"`
	Path      string          `json:"path"`
	Data      json.RawMessage `json:"data"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// Meta is embedded by every content record.
type Meta struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (m *Meta) SetMeta(id string, created, updated time.Time) {
	m.ID = id
	m.CreatedAt = created
	m.UpdatedAt = updated
}

type Record interface {
	SetMeta(id string, created, updated time.Time)
}

// Decode fills v from the document body and metadata.
func Decode(doc *Document, v Record) error {
	if len(doc.Data) > 0 {
		if err := json.Unmarshal(doc.Data, v); err != nil {
			return fmt.Errorf("decode document %s: %w", doc.Path, err)
		}
	}
	v.SetMeta(doc.ID, doc.CreatedAt, doc.UpdatedAt)
	return nil
}

var metaKeys = []string{"id", "createdAt", "updatedAt"}

// ToData turns a record into the map stored as the document body. Metadata
// keys are left to the store.
func ToData(v interface{}) (map[string]interface{}, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out map[string]interface{}
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	for _, k := range metaKeys {
		delete(out, k)
	}
	return out, nil
}
