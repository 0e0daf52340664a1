package controller

import (
	"io"
	"net/http"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"storefront-core/models"
	"storefront-core/service"
)

const maxImportBytes = 8 << 20

// CatalogController handles HTTP requests for the shared catalog
type CatalogController struct {
	service service.CatalogServiceInterface
}

// NewCatalogController creates a new CatalogController
func NewCatalogController(svc service.CatalogServiceInterface) *CatalogController {
	return &CatalogController{service: svc}
}

// List handles GET /catalog
func (c *CatalogController) List(w http.ResponseWriter, r *http.Request) {
	records, err := c.service.List(r.Context())
	if err != nil {
		writeError(w, "ListCatalog", err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

// Upsert handles POST /catalog
// Creates a record, or edits it when the body carries an existing id
func (c *CatalogController) Upsert(w http.ResponseWriter, r *http.Request) {
	log.Printf("📥 UpsertCatalogItem: Received %s request to %s", r.Method, r.URL.Path)

	var input models.CatalogInput
	if !decodeBody(w, r, "UpsertCatalogItem", &input) {
		return
	}

	rec, err := c.service.Upsert(r.Context(), input)
	if err != nil {
		writeError(w, "UpsertCatalogItem", err)
		return
	}

	log.Printf("✅ UpsertCatalogItem: id=%s", rec.ID)
	writeJSON(w, http.StatusOK, rec)
}

// Update handles PUT /catalog/{id}
func (c *CatalogController) Update(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	log.Printf("📥 UpdateCatalogItem: id=%s", id)

	var input models.CatalogInput
	if !decodeBody(w, r, "UpdateCatalogItem", &input) {
		return
	}

	rec, err := c.service.Update(r.Context(), id, input)
	if err != nil {
		writeError(w, "UpdateCatalogItem", err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// Delete handles DELETE /catalog/{id}
func (c *CatalogController) Delete(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	log.Printf("📥 DeleteCatalogItem: id=%s", id)

	if err := c.service.Delete(r.Context(), id); err != nil {
		writeError(w, "DeleteCatalogItem", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Export handles GET /catalog/export
func (c *CatalogController) Export(w http.ResponseWriter, r *http.Request) {
	text, err := c.service.ExportJSON(r.Context())
	if err != nil {
		writeError(w, "ExportCatalog", err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="catalog.json"`)
	w.WriteHeader(http.StatusOK)
	if _, err := io.WriteString(w, text); err != nil {
		log.Errorf("❌ ExportCatalog: Error writing response: %v", err)
	}
}

// Import handles POST /catalog/import
// The body is the text produced by GET /catalog/export
func (c *CatalogController) Import(w http.ResponseWriter, r *http.Request) {
	log.Printf("📥 ImportCatalog: Received %s request to %s", r.Method, r.URL.Path)

	body, err := io.ReadAll(io.LimitReader(r.Body, maxImportBytes))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "could not read request body"})
		return
	}

	n, err := c.service.ImportJSON(r.Context(), string(body))
	if err != nil {
		writeError(w, "ImportCatalog", err)
		return
	}

	log.Printf("✅ ImportCatalog: Imported %d records", n)
	writeJSON(w, http.StatusOK, map[string]int{"imported": n})
}

// Purge handles DELETE /catalog
func (c *CatalogController) Purge(w http.ResponseWriter, r *http.Request) {
	log.Printf("📥 PurgeCatalog: Received %s request to %s", r.Method, r.URL.Path)

	if err := c.service.Purge(r.Context()); err != nil {
		writeError(w, "PurgeCatalog", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
