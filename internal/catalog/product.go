package catalog

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Product is one catalog record. Extra carries attributes the caller sent at
// creation beyond the known fields; they ride through load/save untouched and
// are flattened into the same JSON object as the known fields.
type Product struct {
	ID          int64
	Title       string
	Description string
	Price       float64
	Keywords    []string
	Owner       string
	Extra       map[string]json.RawMessage
}

var knownFields = map[string]struct{}{
	"id":          {},
	"title":       {},
	"description": {},
	"price":       {},
	"keywords":    {},
	"owner":       {},
}

type productWire struct {
	ID          int64    `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	Keywords    []string `json:"keywords"`
	Owner       string   `json:"owner"`
}

func (p Product) MarshalJSON() ([]byte, error) {
	out := make(map[string]json.RawMessage, len(knownFields)+len(p.Extra))
	for k, v := range p.Extra {
		if _, known := knownFields[k]; known {
			continue
		}
		out[k] = v
	}

	keywords := p.Keywords
	if keywords == nil {
		keywords = []string{}
	}

	wire := productWire{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		Price:       p.Price,
		Keywords:    keywords,
		Owner:       p.Owner,
	}
	known, err := json.Marshal(wire)
	if err != nil {
		return nil, err
	}

	var flat map[string]json.RawMessage
	if err := json.Unmarshal(known, &flat); err != nil {
		return nil, err
	}
	for k, v := range flat {
		out[k] = v
	}

	return json.Marshal(out)
}

func (p *Product) UnmarshalJSON(data []byte) error {
	var wire productWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}

	var all map[string]json.RawMessage
	if err := json.Unmarshal(data, &all); err != nil {
		return err
	}
	for k := range knownFields {
		delete(all, k)
	}
	if len(all) == 0 {
		all = nil
	}

	*p = Product{
		ID:          wire.ID,
		Title:       wire.Title,
		Description: wire.Description,
		Price:       wire.Price,
		Keywords:    wire.Keywords,
		Owner:       wire.Owner,
		Extra:       all,
	}
	return nil
}

type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Input is a creation payload. Price is a pointer so a missing price is
// distinguishable from a free product.
type Input struct {
	Title       string
	Description string
	Price       *float64
	Keywords    []string
	Extra       map[string]json.RawMessage
}

func (in Input) validate() error {
	if strings.TrimSpace(in.Title) == "" {
		return &ValidationError{Field: "title", Reason: "required"}
	}
	if in.Price == nil {
		return &ValidationError{Field: "price", Reason: "required"}
	}
	if *in.Price < 0 {
		return &ValidationError{Field: "price", Reason: "must be non-negative"}
	}
	return nil
}

// ParseInput decodes a creation payload, keeping unknown fields as Extra.
func ParseInput(data []byte) (Input, error) {
	var all map[string]json.RawMessage
	if err := json.Unmarshal(data, &all); err != nil {
		return Input{}, &ValidationError{Field: "body", Reason: "not a JSON object"}
	}

	var in Input
	if err := pick(all, "title", &in.Title); err != nil {
		return Input{}, err
	}
	if err := pick(all, "description", &in.Description); err != nil {
		return Input{}, err
	}
	if raw, ok := all["price"]; ok {
		var v float64
		if err := json.Unmarshal(raw, &v); err != nil {
			return Input{}, &ValidationError{Field: "price", Reason: "not a number"}
		}
		in.Price = &v
	}
	if err := pick(all, "keywords", &in.Keywords); err != nil {
		return Input{}, err
	}

	// id and owner are store-assigned; a caller cannot smuggle them in.
	for k := range knownFields {
		delete(all, k)
	}
	if len(all) > 0 {
		in.Extra = all
	}
	return in, nil
}

// Patch is an explicit partial update: nil fields persist, set fields
// overwrite. Extra entries merge over existing extras key by key.
type Patch struct {
	Title       *string
	Description *string
	Price       *float64
	Keywords    *[]string
	Extra       map[string]json.RawMessage
}

func ParsePatch(data []byte) (Patch, error) {
	var all map[string]json.RawMessage
	if err := json.Unmarshal(data, &all); err != nil {
		return Patch{}, &ValidationError{Field: "body", Reason: "not a JSON object"}
	}

	var pt Patch
	if raw, ok := all["title"]; ok {
		var v string
		if err := json.Unmarshal(raw, &v); err != nil {
			return Patch{}, &ValidationError{Field: "title", Reason: "not a string"}
		}
		pt.Title = &v
	}
	if raw, ok := all["description"]; ok {
		var v string
		if err := json.Unmarshal(raw, &v); err != nil {
			return Patch{}, &ValidationError{Field: "description", Reason: "not a string"}
		}
		pt.Description = &v
	}
	if raw, ok := all["price"]; ok {
		var v float64
		if err := json.Unmarshal(raw, &v); err != nil {
			return Patch{}, &ValidationError{Field: "price", Reason: "not a number"}
		}
		pt.Price = &v
	}
	if raw, ok := all["keywords"]; ok {
		var v []string
		if err := json.Unmarshal(raw, &v); err != nil {
			return Patch{}, &ValidationError{Field: "keywords", Reason: "not a string array"}
		}
		pt.Keywords = &v
	}

	// id and owner are immutable through a patch.
	for k := range knownFields {
		delete(all, k)
	}
	if len(all) > 0 {
		pt.Extra = all
	}
	return pt, nil
}

func (pt Patch) validate() error {
	if pt.Title != nil && strings.TrimSpace(*pt.Title) == "" {
		return &ValidationError{Field: "title", Reason: "required"}
	}
	if pt.Price != nil && *pt.Price < 0 {
		return &ValidationError{Field: "price", Reason: "must be non-negative"}
	}
	return nil
}

// Apply merges the patch over p and returns the result; p is not modified.
func (pt Patch) Apply(p Product) Product {
	if pt.Title != nil {
		p.Title = *pt.Title
	}
	if pt.Description != nil {
		p.Description = *pt.Description
	}
	if pt.Price != nil {
		p.Price = *pt.Price
	}
	if pt.Keywords != nil {
		p.Keywords = *pt.Keywords
	}
	if len(pt.Extra) > 0 {
		merged := make(map[string]json.RawMessage, len(p.Extra)+len(pt.Extra))
		for k, v := range p.Extra {
			merged[k] = v
		}
		for k, v := range pt.Extra {
			merged[k] = v
		}
		p.Extra = merged
	}
	return p
}

func pick[T any](all map[string]json.RawMessage, field string, dst *T) error {
	raw, ok := all[field]
	if !ok {
		return nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return &ValidationError{Field: field, Reason: "wrong type"}
	}
	return nil
}
