package repository

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"

	"storefront-core/models"
	"storefront-core/utils"
)

// NormalizeCatalogRecord maps any historical record shape onto the current CatalogRecord.
// It reports false when raw is not a JSON object. Older builds wrote priceMonthly, cat,
// comma-separated features, a singular image (sometimes a bundled-asset number) and
// kinds other than panel, all of which are folded in here.
func NormalizeCatalogRecord(raw []byte, now time.Time) (models.CatalogRecord, bool) {
	r := gjson.ParseBytes(raw)
	if !r.IsObject() {
		return models.CatalogRecord{}, false
	}

	rec := models.CatalogRecord{
		Title:    scalarString(r.Get("title")),
		PanelURL: scalarString(r.Get("panelUrl")),
		Features: stringList(r.Get("features")),
	}

	rec.ID = firstString(r, "id", "slug")
	if rec.ID == "" {
		rec.ID = rec.Title
	}
	if rec.ID == "" {
		rec.ID = randomToken()
	}

	price := r.Get("price")
	if !price.Exists() || price.Type == gjson.Null {
		price = r.Get("priceMonthly")
	}
	rec.Price = numberOf(price)

	rec.Category = firstString(r, "category", "cat")
	if rec.Category == "" {
		rec.Category = models.DefaultCategory
	}
	rec.ExtraCategories = stringList(r.Get("categories"))
	if len(rec.ExtraCategories) == 0 {
		rec.ExtraCategories = []string{rec.Category}
	}

	rec.Images = []string{}
	for _, img := range stringList(r.Get("images")) {
		if fixed := utils.FixImageURL(img); fixed != "" {
			rec.Images = append(rec.Images, fixed)
		}
	}

	if thumb := r.Get("thumbnail"); thumb.Type == gjson.String && strings.TrimSpace(thumb.Str) != "" {
		rec.Thumbnail = utils.FixImageURL(thumb.Str)
	} else if img := r.Get("image"); img.Type == gjson.String && !utils.IsNumericImageID(img.Str) {
		rec.Thumbnail = utils.FixImageURL(img.Str)
	}
	if rec.Thumbnail == "" && len(rec.Images) > 0 {
		rec.Thumbnail = rec.Images[0]
	}

	if strings.EqualFold(strings.TrimSpace(r.Get("kind").String()), models.KindPanel) {
		rec.Kind = models.KindPanel
	} else {
		rec.Kind = models.KindItem
	}

	rec.IsFeatured = r.Get("isFeatured").Bool()
	rec.BuiltIn = r.Get("builtIn").Bool()

	rec.CreatedAt = scalarString(r.Get("createdAt"))
	if rec.CreatedAt == "" {
		rec.CreatedAt = now.UTC().Format(time.RFC3339)
	}
	rec.UpdatedAt = scalarString(r.Get("updatedAt"))

	return rec, true
}

// sanitizeCatalogRecord sends a typed record through the same normalization as stored data
func sanitizeCatalogRecord(rec models.CatalogRecord, now time.Time) models.CatalogRecord {
	raw, err := json.Marshal(rec)
	if err != nil {
		return rec
	}
	out, ok := NormalizeCatalogRecord(raw, now)
	if !ok {
		return rec
	}
	return out
}

// scalarString returns the trimmed text of a string or number, "" otherwise
func scalarString(v gjson.Result) string {
	switch v.Type {
	case gjson.String:
		return strings.TrimSpace(v.Str)
	case gjson.Number:
		return v.Raw
	}
	return ""
}

func firstString(r gjson.Result, paths ...string) string {
	for _, p := range paths {
		if s := scalarString(r.Get(p)); s != "" {
			return s
		}
	}
	return ""
}

// stringList accepts an array of scalars or a comma-separated string
func stringList(v gjson.Result) []string {
	out := []string{}
	switch {
	case v.IsArray():
		v.ForEach(func(_, item gjson.Result) bool {
			if s := scalarString(item); s != "" {
				out = append(out, s)
			}
			return true
		})
	case v.Type == gjson.String:
		out = utils.CleanStrings(strings.Split(v.Str, ","))
	}
	return out
}

// numberOf coerces a number or numeric string, 0 for anything else
func numberOf(v gjson.Result) float64 {
	var f float64
	switch v.Type {
	case gjson.Number:
		f = v.Num
	case gjson.String:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v.Str), 64)
		if err != nil {
			return 0
		}
		f = parsed
	default:
		return 0
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

func randomToken() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}
