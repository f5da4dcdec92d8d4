package persistence

import "strings"

// Allowed sort fields per entity. Sort input always comes from query
// parameters, so anything outside these whitelists falls back to the
// default ordering instead of being interpolated into SQL.
var (
	purchaseOrderSortFields = map[string]bool{
		"created_at":      true,
		"updated_at":      true,
		"order_code":      true,
		"status":          true,
		"generation_date": true,
	}

	catalogSortFields = map[string]bool{
		"created_at": true,
		"updated_at": true,
		"name":       true,
		"published":  true,
	}

	salesOrderSortFields = map[string]bool{
		"created_at":   true,
		"updated_at":   true,
		"order_code":   true,
		"status":       true,
		"receipt_date": true,
	}

	inventorySortFields = map[string]bool{
		"created_at":      true,
		"updated_at":      true,
		"quantity":        true,
		"minimum_stock":   true,
		"expiration_date": true,
	}

	alertSortFields = map[string]bool{
		"created_at":   true,
		"severity":     true,
		"generated_at": true,
		"acknowledged": true,
	}
)

// validateSortField returns the field if it is in the whitelist,
// otherwise the safe default "created_at".
func validateSortField(field string, allowed map[string]bool) string {
	field = strings.ToLower(strings.TrimSpace(field))
	if allowed[field] {
		return field
	}
	return "created_at"
}

// validateSortOrder normalizes the sort direction to ASC or DESC.
func validateSortOrder(order string) string {
	if strings.EqualFold(strings.TrimSpace(order), "asc") {
		return "ASC"
	}
	return "DESC"
}
