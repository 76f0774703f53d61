package search

import (
	"strings"
)

// SearchFilters holds the extracted filters and the remaining clean query
type SearchFilters struct {
	FolderName string
	Name       string // Generation name filter
	Type       string // Content type filter
	Query      string // The remaining text to search by name
}

// ParseQuery extracts slash commands from the raw query string
// Supported:
// /folder:<term> OR /in:<term> -> Filter by folder name
// /name:<term> -> Filter by generation name
// /type:<term> -> Filter by content type
// <text> -> Remaining text is the Query
func ParseQuery(raw string) SearchFilters {
	filters := SearchFilters{}
	parts := strings.Fields(raw)
	var cleanParts []string

	for _, part := range parts {
		lowerPart := strings.ToLower(part)

		if strings.HasPrefix(lowerPart, "/folder:") {
			filters.FolderName = strings.TrimPrefix(lowerPart, "/folder:")
		} else if strings.HasPrefix(lowerPart, "/in:") {
			// Alias for /folder:
			filters.FolderName = strings.TrimPrefix(lowerPart, "/in:")
		} else if strings.HasPrefix(lowerPart, "/name:") {
			filters.Name = strings.TrimPrefix(lowerPart, "/name:")
		} else if strings.HasPrefix(lowerPart, "/type:") {
			filters.Type = strings.TrimPrefix(part, "/type:")
		} else {
			cleanParts = append(cleanParts, part)
		}
	}

	filters.Query = strings.Join(cleanParts, " ")
	return filters
}
