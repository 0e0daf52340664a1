package repository

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"storefront-core/models"
)

//go:embed builtin_catalog.yaml
var builtinCatalogYAML []byte

// BuiltInCatalog decodes the catalog records compiled into the binary
func BuiltInCatalog() ([]models.CatalogRecord, error) {
	var records []models.CatalogRecord
	if err := yaml.Unmarshal(builtinCatalogYAML, &records); err != nil {
		return nil, fmt.Errorf("failed to decode built-in catalog: %w", err)
	}
	for i := range records {
		records[i].BuiltIn = true
	}
	return records, nil
}

// demoCatalog is written by EnsureSeeded when demo seeding is enabled
func demoCatalog() []models.CatalogRecord {
	return []models.CatalogRecord{{
		ID:              "demo-basic",
		Title:           "Demo Basic Package",
		Price:           299,
		Features:        []string{"10 Products", "Basic Theme"},
		Category:        models.DefaultCategory,
		ExtraCategories: []string{models.DefaultCategory},
		Kind:            models.KindItem,
		Images:          []string{},
	}}
}
