// Package shopping turns free-text ingredient lines into a merged shopping list.
package shopping

import (
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Leading number, optional unit candidate, remainder.
var linePattern = regexp.MustCompile(`^(\d+(?:[.,]\d+)?)\s*([^\d\s]+)?\s*(.*)$`)

// IngredientLine is one parsed ingredient entry
type IngredientLine struct {
	Raw      string   `json:"raw"`
	Quantity *float64 `json:"quantity,omitempty"`
	Unit     string   `json:"unit,omitempty"`
	Name     string   `json:"name"`
	Key      string   `json:"key"`
}

// HasQuantity reports whether a number was parsed from the line.
func (l IngredientLine) HasQuantity() bool {
	return l.Quantity != nil
}

// Parse splits a single ingredient line into quantity, unit and name.
// Unparseable input degrades to a line whose whole text is the name.
func Parse(line string) IngredientLine {
	raw := normalizeSpaces(line)
	parsed := IngredientLine{Raw: raw}

	m := linePattern.FindStringSubmatch(raw)
	if m == nil {
		return parsed.withName(raw)
	}

	qty, err := strconv.ParseFloat(strings.Replace(m[1], ",", ".", 1), 64)
	if err != nil {
		return parsed.withName(raw)
	}

	candidate, rest := m[2], strings.TrimSpace(m[3])

	// "2 картофелины": the candidate is the name and the count is dropped.
	if candidate != "" && rest == "" {
		return parsed.withName(candidate)
	}

	parsed.Quantity = &qty
	if candidate != "" {
		parsed.Unit = NormalizeUnit(candidate)
	}
	return parsed.withName(rest)
}

func (l IngredientLine) withName(name string) IngredientLine {
	l.Name = strings.ToLower(name)
	l.Key = l.Name
	return l
}

// normalizeSpaces trims s and collapses every whitespace run to one space.
func normalizeSpaces(s string) string {
	return strings.Join(strings.Fields(norm.NFC.String(s)), " ")
}

// normalizeText is the comparison form used to drop redundant leftovers.
func normalizeText(s string) string {
	return strings.ToLower(normalizeSpaces(s))
}
