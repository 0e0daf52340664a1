package models

// Catalog record kinds
const (
	KindItem  = "item"
	KindPanel = "panel"
)

// DefaultCategory is assigned to records stored without a category
const DefaultCategory = "Basic"

// CatalogRecord is one sellable item or panel/service definition as stored under @products.
// Example:
// {
//   "id": "basic",
//   "title": "E-Commerce Basic",
//   "price": 299,
//   "features": ["10 Products", "Basic Theme", "SSL Certificate"],
//   "category": "Basic",
//   "categories": ["Basic"],
//   "kind": "item",
//   "images": [],
//   "isFeatured": true,
//   "builtIn": true,
//   "createdAt": "2026-01-04T10:30:00Z"
// }
type CatalogRecord struct {
	ID              string   `json:"id" yaml:"id"`
	Title           string   `json:"title" yaml:"title"`
	Price           float64  `json:"price" yaml:"price"`
	Features        []string `json:"features" yaml:"features"`
	Category        string   `json:"category" yaml:"category"`
	ExtraCategories []string `json:"categories" yaml:"categories"`
	Kind            string   `json:"kind" yaml:"kind"`
	PanelURL        string   `json:"panelUrl,omitempty" yaml:"panelUrl"`
	Images          []string `json:"images" yaml:"images"`
	Thumbnail       string   `json:"thumbnail,omitempty" yaml:"thumbnail"`
	IsFeatured      bool     `json:"isFeatured" yaml:"isFeatured"`
	BuiltIn         bool     `json:"builtIn" yaml:"builtIn"`
	CreatedAt       string   `json:"createdAt,omitempty" yaml:"createdAt"`
	UpdatedAt       string   `json:"updatedAt,omitempty" yaml:"updatedAt"`
}

// CatalogInput is the admin-authored insert/edit payload. Nil fields are left untouched on edit.
type CatalogInput struct {
	ID              string    `json:"id,omitempty"`
	Title           *string   `json:"title,omitempty"`
	Price           *float64  `json:"price,omitempty"`
	Features        *[]string `json:"features,omitempty"`
	Category        *string   `json:"category,omitempty"`
	ExtraCategories *[]string `json:"categories,omitempty"`
	Kind            *string   `json:"kind,omitempty"`
	PanelURL        *string   `json:"panelUrl,omitempty"`
	Images          *[]string `json:"images,omitempty"`
	Thumbnail       *string   `json:"thumbnail,omitempty"`
	IsFeatured      *bool     `json:"isFeatured,omitempty"`
}

// CatalogMeta is stored under @products_meta
type CatalogMeta struct {
	Version int `json:"version"`
	// RemovedBuiltIns lists built-in ids an admin deleted; reconciliation does not re-insert them.
	RemovedBuiltIns []string `json:"removedBuiltIns,omitempty"`
}

// ReconcileResult reports what a reconciliation pass did
type ReconcileResult struct {
	Inserted int `json:"inserted"`
	Merged   int `json:"merged"`
	Skipped  int `json:"skipped"`
	Total    int `json:"total"`
}
