package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"storefront-core/kvstore"
	"storefront-core/models"
	"storefront-core/utils"
)

// Catalog storage keys and the current meta version
const (
	ProductsKey         = "@products"
	ProductsMetaKey     = "@products_meta"
	CatalogMetaVersion  = 4
	catalogExportIndent = "  "
)

// CatalogRepository owns the shared catalog collection
type CatalogRepository struct {
	store    kvstore.Store
	locks    *kvstore.KeyedMutex
	builtIns []models.CatalogRecord
	demo     bool
}

// NewCatalogRepository creates a new CatalogRepository. builtIns are the records
// reconciliation guarantees; demo makes EnsureSeeded write the demo set instead of [].
func NewCatalogRepository(store kvstore.Store, locks *kvstore.KeyedMutex, builtIns []models.CatalogRecord, demo bool) *CatalogRepository {
	return &CatalogRepository{
		store:    store,
		locks:    locks,
		builtIns: builtIns,
		demo:     demo,
	}
}

// Ensure CatalogRepository implements CatalogRepositoryInterface
var _ CatalogRepositoryInterface = (*CatalogRepository)(nil)

// catalogList keeps first-seen order while letting a later duplicate id replace the earlier value
type catalogList struct {
	records []models.CatalogRecord
	index   map[string]int
}

func newCatalogList() *catalogList {
	return &catalogList{records: []models.CatalogRecord{}, index: map[string]int{}}
}

func (l *catalogList) put(rec models.CatalogRecord) {
	if i, ok := l.index[rec.ID]; ok {
		l.records[i] = rec
		return
	}
	l.index[rec.ID] = len(l.records)
	l.records = append(l.records, rec)
}

func (l *catalogList) get(id string) (models.CatalogRecord, bool) {
	i, ok := l.index[id]
	if !ok {
		return models.CatalogRecord{}, false
	}
	return l.records[i], true
}

func (l *catalogList) remove(id string) {
	i, ok := l.index[id]
	if !ok {
		return
	}
	l.records = append(l.records[:i], l.records[i+1:]...)
	delete(l.index, id)
	for j := i; j < len(l.records); j++ {
		l.index[l.records[j].ID] = j
	}
}

// decodeCatalog normalizes every stored record. corrupt is true when the stored text is not a JSON array.
func decodeCatalog(raw []byte, now time.Time) (list *catalogList, corrupt bool) {
	list = newCatalogList()
	if raw == nil {
		return list, false
	}

	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return list, true
	}
	for _, item := range items {
		rec, ok := NormalizeCatalogRecord(item, now)
		if !ok {
			log.Warnf("⚠️  Catalog: Dropping non-object record %.40s", string(item))
			continue
		}
		list.put(rec)
	}
	return list, false
}

// load reads the catalog. A missing or corrupt value is an empty catalog.
func (r *CatalogRepository) load(ctx context.Context) (*catalogList, bool, error) {
	raw, err := readRaw(ctx, r.store, ProductsKey)
	if err != nil {
		return nil, false, err
	}
	list, corrupt := decodeCatalog(raw, nowFunc())
	if corrupt {
		log.Warnf("⚠️  Catalog: Stored value at %s is not a list, treating it as empty", ProductsKey)
	}
	return list, raw != nil, nil
}

func (r *CatalogRepository) save(ctx context.Context, records []models.CatalogRecord) error {
	if records == nil {
		records = []models.CatalogRecord{}
	}
	return writeJSON(ctx, r.store, ProductsKey, records)
}

func (r *CatalogRepository) loadMeta(ctx context.Context) (models.CatalogMeta, bool, error) {
	var meta models.CatalogMeta
	raw, err := readRaw(ctx, r.store, ProductsMetaKey)
	if err != nil || raw == nil {
		return meta, false, err
	}
	if err := json.Unmarshal(raw, &meta); err != nil {
		log.Warnf("⚠️  Catalog: Corrupt meta at %s, rewriting it", ProductsMetaKey)
		return models.CatalogMeta{}, false, nil
	}
	return meta, true, nil
}

// EnsureSeeded writes the initial catalog only when the key has never been written
// and brings the meta record to the current version.
func (r *CatalogRepository) EnsureSeeded(ctx context.Context) (bool, error) {
	unlock := r.locks.Lock(ProductsKey)
	defer unlock()

	meta, _, err := r.loadMeta(ctx)
	if err != nil {
		return false, err
	}
	if meta.Version != CatalogMetaVersion {
		log.Printf("🔧 EnsureSeeded: Migrating catalog meta version %d -> %d", meta.Version, CatalogMetaVersion)
		meta.Version = CatalogMetaVersion
		if err := writeJSON(ctx, r.store, ProductsMetaKey, meta); err != nil {
			return false, err
		}
	}

	_, found, err := r.store.Get(ctx, ProductsKey)
	if err != nil {
		return false, err
	}
	if found {
		return false, nil
	}

	initial := []models.CatalogRecord{}
	if r.demo {
		now := nowFunc()
		for _, rec := range demoCatalog() {
			initial = append(initial, sanitizeCatalogRecord(rec, now))
		}
	}
	if err := r.save(ctx, initial); err != nil {
		return false, err
	}

	log.Printf("🌱 EnsureSeeded: Initialized %s with %d records", ProductsKey, len(initial))
	return true, nil
}

// Reconcile merges the built-in records into the stored catalog without overwriting user data
func (r *CatalogRepository) Reconcile(ctx context.Context) (models.ReconcileResult, error) {
	unlock := r.locks.Lock(ProductsKey)
	defer unlock()

	var result models.ReconcileResult

	raw, err := readRaw(ctx, r.store, ProductsKey)
	if err != nil {
		return result, err
	}
	now := nowFunc()
	current, corrupt := decodeCatalog(raw, now)
	if corrupt {
		log.Warnf("⚠️  Reconcile: Stored catalog is unreadable, leaving it untouched")
		return result, nil
	}

	meta, _, err := r.loadMeta(ctx)
	if err != nil {
		return result, err
	}
	removed := make(map[string]bool, len(meta.RemovedBuiltIns))
	for _, id := range meta.RemovedBuiltIns {
		removed[id] = true
	}

	merged := newCatalogList()
	for _, rec := range current.records {
		if rec.ID == "" || rec.Title == "" {
			result.Skipped++
			continue
		}
		merged.put(rec)
	}

	for _, b := range r.builtIns {
		builtIn := sanitizeCatalogRecord(b, now)
		builtIn.BuiltIn = true

		existing, ok := merged.get(builtIn.ID)
		if !ok {
			if removed[builtIn.ID] {
				result.Skipped++
				continue
			}
			merged.put(builtIn)
			result.Inserted++
			continue
		}
		merged.put(softMerge(existing, builtIn))
		result.Merged++
	}

	result.Total = len(merged.records)
	if err := r.save(ctx, merged.records); err != nil {
		return result, err
	}

	log.Printf("✅ Reconcile: inserted=%d merged=%d skipped=%d total=%d", result.Inserted, result.Merged, result.Skipped, result.Total)
	return result, nil
}

// softMerge keeps every non-empty field of existing and backfills the empty ones from b
func softMerge(existing, b models.CatalogRecord) models.CatalogRecord {
	out := existing
	if out.Title == "" {
		out.Title = b.Title
	}
	if out.Price == 0 {
		out.Price = b.Price
	}
	if len(out.Features) == 0 {
		out.Features = append([]string{}, b.Features...)
	}
	if out.Category == "" {
		out.Category = b.Category
	}
	if len(out.ExtraCategories) == 0 {
		out.ExtraCategories = append([]string{}, b.ExtraCategories...)
	}
	if out.Kind == "" {
		out.Kind = b.Kind
	}
	if out.PanelURL == "" {
		out.PanelURL = b.PanelURL
	}
	if len(out.Images) == 0 {
		out.Images = append([]string{}, b.Images...)
	}
	if out.Thumbnail == "" {
		out.Thumbnail = b.Thumbnail
	}
	if out.CreatedAt == "" {
		out.CreatedAt = b.CreatedAt
	}
	if out.UpdatedAt == "" {
		out.UpdatedAt = b.UpdatedAt
	}
	out.BuiltIn = true
	return out
}

// List returns the catalog in stored order
func (r *CatalogRepository) List(ctx context.Context) ([]models.CatalogRecord, error) {
	list, _, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	return list.records, nil
}

// Get returns one record by id
func (r *CatalogRepository) Get(ctx context.Context, id string) (*models.CatalogRecord, error) {
	list, _, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	rec, ok := list.get(strings.TrimSpace(id))
	if !ok {
		return nil, ErrNotFound
	}
	return &rec, nil
}

// Add inserts a new record, deriving an id from the title when none is given
func (r *CatalogRepository) Add(ctx context.Context, input models.CatalogInput) (*models.CatalogRecord, error) {
	unlock := r.locks.Lock(ProductsKey)
	defer unlock()

	log.Printf("📦 AddCatalogRecord: id=%q", input.ID)

	list, _, err := r.load(ctx)
	if err != nil {
		return nil, err
	}

	rec := models.CatalogRecord{Kind: models.KindItem}
	applyCatalogInput(&rec, input)
	if rec.Title == "" {
		return nil, models.NewValidationError("title", "title is required")
	}
	if rec.Price < 0 {
		return nil, models.NewValidationError("price", "price must not be negative")
	}

	id := strings.TrimSpace(input.ID)
	if id != "" {
		if _, exists := list.get(id); exists {
			return nil, models.NewValidationError("id", fmt.Sprintf("a catalog record with id %q already exists", id))
		}
	} else {
		base := utils.Slugify(rec.Title)
		if base == "" {
			base = randomToken()
		}
		id = uniqueCatalogID(base, list)
	}
	rec.ID = id

	now := nowFunc()
	stamp := now.UTC().Format(time.RFC3339)
	rec.CreatedAt = stamp
	rec.UpdatedAt = stamp
	rec = sanitizeCatalogRecord(rec, now)

	list.put(rec)
	if err := r.save(ctx, list.records); err != nil {
		return nil, err
	}

	log.Printf("✅ AddCatalogRecord: Stored id=%s", rec.ID)
	return &rec, nil
}

func uniqueCatalogID(base string, list *catalogList) string {
	id := base
	for n := 2; ; n++ {
		if _, exists := list.get(id); !exists {
			return id
		}
		id = base + "-" + strconv.Itoa(n)
	}
}

// Update applies a partial edit to an existing record
func (r *CatalogRepository) Update(ctx context.Context, id string, input models.CatalogInput) (*models.CatalogRecord, error) {
	unlock := r.locks.Lock(ProductsKey)
	defer unlock()

	id = strings.TrimSpace(id)
	log.Printf("✏️  UpdateCatalogRecord: id=%s", id)

	list, _, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	rec, ok := list.get(id)
	if !ok {
		return nil, ErrNotFound
	}

	applyCatalogInput(&rec, input)
	if rec.Title == "" {
		return nil, models.NewValidationError("title", "title is required")
	}
	if rec.Price < 0 {
		return nil, models.NewValidationError("price", "price must not be negative")
	}

	now := nowFunc()
	rec.UpdatedAt = now.UTC().Format(time.RFC3339)
	rec = sanitizeCatalogRecord(rec, now)

	list.put(rec)
	if err := r.save(ctx, list.records); err != nil {
		return nil, err
	}
	return &rec, nil
}

// Upsert updates the record when input.ID exists and adds it otherwise
func (r *CatalogRepository) Upsert(ctx context.Context, input models.CatalogInput) (*models.CatalogRecord, error) {
	if id := strings.TrimSpace(input.ID); id != "" {
		rec, err := r.Update(ctx, id, input)
		if !errors.Is(err, ErrNotFound) {
			return rec, err
		}
	}
	return r.Add(ctx, input)
}

func applyCatalogInput(rec *models.CatalogRecord, in models.CatalogInput) {
	if in.Title != nil {
		rec.Title = strings.TrimSpace(*in.Title)
	}
	if in.Price != nil {
		rec.Price = *in.Price
	}
	if in.Features != nil {
		rec.Features = utils.CleanStrings(*in.Features)
	}
	if in.Category != nil {
		rec.Category = strings.TrimSpace(*in.Category)
	}
	if in.ExtraCategories != nil {
		rec.ExtraCategories = utils.CleanStrings(*in.ExtraCategories)
	}
	if in.Kind != nil {
		rec.Kind = strings.TrimSpace(*in.Kind)
	}
	if in.PanelURL != nil {
		rec.PanelURL = strings.TrimSpace(*in.PanelURL)
	}
	if in.Images != nil {
		rec.Images = utils.CleanStrings(*in.Images)
	}
	if in.Thumbnail != nil {
		rec.Thumbnail = strings.TrimSpace(*in.Thumbnail)
	}
	if in.IsFeatured != nil {
		rec.IsFeatured = *in.IsFeatured
	}
}

// Remove deletes a record. Deleting a built-in records a tombstone so reconciliation
// does not bring it back until the catalog is purged.
func (r *CatalogRepository) Remove(ctx context.Context, id string) error {
	unlock := r.locks.Lock(ProductsKey)
	defer unlock()

	id = strings.TrimSpace(id)
	log.Printf("🗑️  RemoveCatalogRecord: id=%s", id)

	list, _, err := r.load(ctx)
	if err != nil {
		return err
	}
	rec, ok := list.get(id)
	if !ok {
		return ErrNotFound
	}

	if rec.BuiltIn || r.isBuiltIn(id) {
		meta, _, err := r.loadMeta(ctx)
		if err != nil {
			return err
		}
		meta.Version = CatalogMetaVersion
		if !containsString(meta.RemovedBuiltIns, id) {
			meta.RemovedBuiltIns = append(meta.RemovedBuiltIns, id)
		}
		if err := writeJSON(ctx, r.store, ProductsMetaKey, meta); err != nil {
			return err
		}
	}

	list.remove(id)
	return r.save(ctx, list.records)
}

func (r *CatalogRepository) isBuiltIn(id string) bool {
	for _, b := range r.builtIns {
		if b.ID == id {
			return true
		}
	}
	return false
}

// ExportJSON renders the catalog as indented JSON for backup
func (r *CatalogRepository) ExportJSON(ctx context.Context) (string, error) {
	records, err := r.List(ctx)
	if err != nil {
		return "", err
	}
	out, err := json.MarshalIndent(records, "", catalogExportIndent)
	if err != nil {
		return "", fmt.Errorf("failed to encode catalog: %w", err)
	}
	return string(out), nil
}

// ImportJSON replaces the catalog with a backup produced by ExportJSON
func (r *CatalogRepository) ImportJSON(ctx context.Context, text string) (int, error) {
	var items []json.RawMessage
	if err := json.Unmarshal([]byte(text), &items); err != nil || items == nil {
		return 0, models.NewValidationError("catalog", "import must be a JSON array of records")
	}
	return r.ReplaceAll(ctx, items)
}

// ReplaceAll overwrites the catalog, sending every incoming record through the shape migration
func (r *CatalogRepository) ReplaceAll(ctx context.Context, items []json.RawMessage) (int, error) {
	unlock := r.locks.Lock(ProductsKey)
	defer unlock()

	now := nowFunc()
	list := newCatalogList()
	for _, item := range items {
		rec, ok := NormalizeCatalogRecord(item, now)
		if !ok {
			continue
		}
		list.put(rec)
	}

	if err := r.save(ctx, list.records); err != nil {
		return 0, err
	}

	log.Printf("📥 ReplaceAll: Stored %d of %d records", len(list.records), len(items))
	return len(list.records), nil
}

// PurgeAll deletes the catalog and its meta; the next EnsureSeeded starts over
func (r *CatalogRepository) PurgeAll(ctx context.Context) error {
	unlock := r.locks.Lock(ProductsKey)
	defer unlock()

	log.Printf("🧨 PurgeAll: Removing %s and %s", ProductsKey, ProductsMetaKey)
	return r.store.Remove(ctx, ProductsKey, ProductsMetaKey)
}

func containsString(values []string, s string) bool {
	for _, v := range values {
		if v == s {
			return true
		}
	}
	return false
}
