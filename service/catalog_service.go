package service

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"storefront-core/models"
	"storefront-core/repository"
)

// CatalogService orchestrates seeding and reconciliation of the shared catalog
type CatalogService struct {
	repository repository.CatalogRepositoryInterface
}

// NewCatalogService creates a new CatalogService
func NewCatalogService(repo repository.CatalogRepositoryInterface) *CatalogService {
	return &CatalogService{repository: repo}
}

// Ensure CatalogService implements CatalogServiceInterface
var _ CatalogServiceInterface = (*CatalogService)(nil)

// Startup runs EnsureSeeded then Reconcile
func (s *CatalogService) Startup(ctx context.Context) (models.ReconcileResult, error) {
	log.Printf("🔄 Starting catalog seed and reconciliation")

	seeded, err := s.repository.EnsureSeeded(ctx)
	if err != nil {
		return models.ReconcileResult{}, fmt.Errorf("failed to seed catalog: %w", err)
	}
	if seeded {
		log.Printf("🌱 Catalog key was empty, initialized it")
	}

	result, err := s.repository.Reconcile(ctx)
	if err != nil {
		return result, fmt.Errorf("failed to reconcile catalog: %w", err)
	}

	log.Printf("🎉 Catalog ready: %d inserted, %d merged, %d skipped, %d total", result.Inserted, result.Merged, result.Skipped, result.Total)
	return result, nil
}

// List returns every catalog record
func (s *CatalogService) List(ctx context.Context) ([]models.CatalogRecord, error) {
	return s.repository.List(ctx)
}

// Get returns one catalog record
func (s *CatalogService) Get(ctx context.Context, id string) (*models.CatalogRecord, error) {
	return s.repository.Get(ctx, id)
}

// Upsert creates or edits a record depending on whether input.ID exists
func (s *CatalogService) Upsert(ctx context.Context, input models.CatalogInput) (*models.CatalogRecord, error) {
	return s.repository.Upsert(ctx, input)
}

// Update edits an existing record
func (s *CatalogService) Update(ctx context.Context, id string, input models.CatalogInput) (*models.CatalogRecord, error) {
	return s.repository.Update(ctx, id, input)
}

// Delete removes a record, built-ins included
func (s *CatalogService) Delete(ctx context.Context, id string) error {
	return s.repository.Remove(ctx, id)
}

// ExportJSON returns the backup text
func (s *CatalogService) ExportJSON(ctx context.Context) (string, error) {
	return s.repository.ExportJSON(ctx)
}

// ImportJSON restores a backup
func (s *CatalogService) ImportJSON(ctx context.Context, text string) (int, error) {
	return s.repository.ImportJSON(ctx, text)
}

// Purge deletes the catalog so the next Startup seeds from scratch
func (s *CatalogService) Purge(ctx context.Context) error {
	return s.repository.PurgeAll(ctx)
}
