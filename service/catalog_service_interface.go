package service

import (
	"context"

	"storefront-core/models"
)

// CatalogServiceInterface defines the catalog consumer contract
type CatalogServiceInterface interface {
	// Startup seeds the catalog if it was never written and reconciles the built-ins:
	// inserted = built-ins added, merged = built-ins backfilled into stored records,
	// skipped = invalid or tombstoned records, total = records persisted.
	Startup(ctx context.Context) (models.ReconcileResult, error)
	List(ctx context.Context) ([]models.CatalogRecord, error)
	Get(ctx context.Context, id string) (*models.CatalogRecord, error)
	Upsert(ctx context.Context, input models.CatalogInput) (*models.CatalogRecord, error)
	Update(ctx context.Context, id string, input models.CatalogInput) (*models.CatalogRecord, error)
	Delete(ctx context.Context, id string) error
	ExportJSON(ctx context.Context) (string, error)
	ImportJSON(ctx context.Context, text string) (int, error)
	Purge(ctx context.Context) error
}
