package service

import (
	"strconv"
	"strings"
)

// Response parsing for the free-text completions. The generator is prompted
// with exact field labels ("Pays:", "Temps de préparation:", ...) but its
// output is still best-effort text, so every extraction here degrades to a
// documented default instead of failing, except where a strict policy is
// requested for the playlist/wine stages.

// Defaults substituted when a field cannot be extracted.
const (
	DefaultCountry     = "Non spécifié"
	DefaultRegion      = "Non spécifié"
	DefaultDescription = "Pas de description"
	DefaultDifficulty  = "moyen"

	DefaultPreparationTime = 30
	DefaultCookingTime     = 45
	DefaultServings        = 4

	DefaultPlaylistTitle       = "Ambiance culinaire"
	DefaultPlaylistDescription = "Une sélection musicale pour accompagner votre cuisine"
	DefaultSpotifyLink         = "spotify:playlist:37i9dQZF1DXb9LIXaj5WhZ"

	DefaultWineName        = "Vin recommandé"
	DefaultWineDescription = "Un vin qui se marie parfaitement avec ce plat"
)

// ExtractValue scans lines top to bottom and returns the value of the first
// line starting with "<key>:", trimmed. Later duplicates are ignored.
func ExtractValue(lines []string, key string) (string, bool) {
	prefix := key + ":"
	for _, line := range lines {
		if strings.HasPrefix(line, prefix) {
			return strings.TrimSpace(line[len(prefix):]), true
		}
	}
	return "", false
}

// ExtractValueOr returns the extracted value or def when the key is absent
// or its value is empty.
func ExtractValueOr(lines []string, key, def string) string {
	v, ok := ExtractValue(lines, key)
	if !ok || v == "" {
		return def
	}
	return v
}

// SplitLines splits a completion into trimmed lines, keeping empty ones so
// positional extraction stays aligned with the raw response.
func SplitLines(raw string) []string {
	lines := strings.Split(raw, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	return lines
}

// ListItems splits a response into list entries: bullet markers ("- ") and
// numeric prefixes ("1. ", "2) ") are stripped, blank results dropped,
// order preserved.
func ListItems(raw string) []string {
	var items []string
	for _, line := range SplitLines(raw) {
		item := stripListPrefix(line)
		if item != "" {
			items = append(items, item)
		}
	}
	return items
}

func stripListPrefix(line string) string {
	s := strings.TrimSpace(line)
	s = strings.TrimLeft(s, "-*")
	s = strings.TrimSpace(s)
	// numbered prefix: digits followed by "." or ")"
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i > 0 && i < len(s) && (s[i] == '.' || s[i] == ')') {
		s = s[i+1:]
	}
	return strings.TrimSpace(s)
}

// ParsedIngredient is one decomposed ingredient line.
type ParsedIngredient struct {
	Quantity string
	Unit     string
	Name     string
}

// ParseIngredientLine decomposes "<qty> <unit> <name...>". With only two
// tokens the unit is empty and the second token is the name; a single token
// becomes both quantity and name so the line is never lost.
func ParseIngredientLine(line string) ParsedIngredient {
	fields := strings.Fields(line)
	switch len(fields) {
	case 0:
		return ParsedIngredient{}
	case 1:
		return ParsedIngredient{Quantity: fields[0], Name: fields[0]}
	case 2:
		return ParsedIngredient{Quantity: fields[0], Name: fields[1]}
	default:
		return ParsedIngredient{
			Quantity: fields[0],
			Unit:     fields[1],
			Name:     strings.Join(fields[2:], " "),
		}
	}
}

// ParseMinutes parses an integer duration, tolerating a trailing " min"
// unit. Unparseable values fall back to def.
func ParseMinutes(value string, def int) int {
	v := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(value), "min"))
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

// ParseIntOr parses an integer, falling back to def.
func ParseIntOr(value string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return def
	}
	return n
}
