package project

import (
	"encoding/json"
	"fmt"
	"regexp"

	"stringart_backend/internal/models"
)

var (
	nailKeyPattern    = regexp.MustCompile(`^\d+,\d+$`)
	boardColorPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)
)

const (
	maxNameLen    = 255
	maxVersionLen = 10
)

func validateName(name string) []string {
	switch {
	case name == "":
		return []string{"project name is required"}
	case len(name) > maxNameLen:
		return []string{fmt.Sprintf("project name cannot exceed %d characters", maxNameLen)}
	}
	return nil
}

func validateVersion(version string) []string {
	switch {
	case version == "":
		return []string{"version cannot be blank"}
	case len(version) > maxVersionLen:
		return []string{fmt.Sprintf("version cannot exceed %d characters", maxVersionLen)}
	}
	return nil
}

func validateVisibility(visibility string) []string {
	switch models.Visibility(visibility) {
	case models.VisibilityPersonal, models.VisibilityShared:
		return nil
	}
	return []string{`visibility must be either "personal" or "shared"`}
}

func validateBoardConfig(cfg models.BoardConfig) []string {
	var violations []string

	numericFields := []struct {
		name  string
		value float64
	}{
		{"dotsCountHorizontal", cfg.DotsCountHorizontal},
		{"dotsCountVertical", cfg.DotsCountVertical},
		{"marginBetweenNails", cfg.MarginBetweenNails},
		{"paddingBoard", cfg.PaddingBoard},
	}

	for _, f := range numericFields {
		if f.value <= 0 {
			violations = append(violations, fmt.Sprintf("%s must be a positive number", f.name))
		}
	}

	if !boardColorPattern.MatchString(cfg.BoardColor) {
		violations = append(violations, "boardColor must be a valid hex color (e.g., #8B4513)")
	}

	return violations
}

// validateNails checks every key against the "x,y" coordinate pattern and
// cites the first offending key.
func validateNails(nails map[string]json.RawMessage) []string {
	if len(nails) == 0 {
		return []string{"nails data is required"}
	}

	for key := range nails {
		if !nailKeyPattern.MatchString(key) {
			return []string{fmt.Sprintf("invalid nail position format: %q, expected format: \"x,y\"", key)}
		}
	}

	return nil
}
