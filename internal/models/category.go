package models

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Category is a fixed catalog entry. Categories are compiled into the binary
// and never persisted.
type Category struct {
	ID   string `yaml:"id" json:"id"`
	Name string `yaml:"name" json:"name"`
	Icon string `yaml:"icon" json:"icon"`
}

//go:embed categories.yml
var categoriesYAML []byte

var categories []Category

func init() {
	var doc struct {
		Categories []Category `yaml:"categories"`
	}
	if err := yaml.Unmarshal(categoriesYAML, &doc); err != nil {
		panic(fmt.Sprintf("invalid embedded category catalog: %v", err))
	}
	categories = doc.Categories
}

// Categories returns the full fixed catalog.
func Categories() []Category {
	return categories
}

// ValidCategoryID reports whether id names a catalog entry.
func ValidCategoryID(id string) bool {
	for _, c := range categories {
		if c.ID == id {
			return true
		}
	}
	return false
}
