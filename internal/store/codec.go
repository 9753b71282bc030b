package store

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"slices"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/sandeepkv93/todonest/internal/model"
)

var ErrMalformedBlob = errors.New("store: malformed persisted blob")

//go:embed categories.schema.json
var categoriesSchemaJSON string

var categoriesSchema = jsonschema.MustCompileString("categories.schema.json", categoriesSchemaJSON)

// Encode serializes categories for storage. Live order is newest-first; the
// blob is written oldest-first, for categories and for each task list.
func Encode(categories []model.Category) ([]byte, error) {
	persisted := reversed(model.CloneCategories(categories))
	return json.Marshal(persisted)
}

// Decode validates and parses a blob written by Encode and returns the
// categories in newest-first order.
func Decode(raw []byte) ([]model.Category, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedBlob, err)
	}
	if err := categoriesSchema.Validate(doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedBlob, err)
	}

	var categories []model.Category
	if err := json.Unmarshal(raw, &categories); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedBlob, err)
	}
	for i := range categories {
		if categories[i].Tasks == nil {
			categories[i].Tasks = []model.Task{}
		}
	}
	if categories == nil {
		categories = []model.Category{}
	}
	return reversed(categories), nil
}

func reversed(categories []model.Category) []model.Category {
	slices.Reverse(categories)
	for i := range categories {
		slices.Reverse(categories[i].Tasks)
	}
	return categories
}
