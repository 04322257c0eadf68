package category

import (
	"errors"
	"regexp"
	"strings"
)

// ErrCategoryAmbiguous signals that a raw category value could not be resolved
// and the normalizer fell back to the default. It is a soft warning: the
// returned category is still usable, callers should log and flag the record
// for manual review instead of failing the operation.
var ErrCategoryAmbiguous = errors.New("category value is ambiguous, defaulted to HARDWARE")

// LookupFunc resolves an opaque category identifier to its display name.
// Supplied by the category directory external to this engine.
type LookupFunc func(identifier string) (string, bool)

// The legacy identifier format is inferred from observed data, not a
// documented contract, so the heuristic stays configurable.
var defaultIdentifierPattern = regexp.MustCompile(`^(?:[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}|[0-9A-Za-z_-]{20,})$`)

type NormalizerConfig struct {
	// IdentifierPattern decides whether a raw value is shaped like an opaque
	// identifier rather than a human label. Defaults to uuid-shaped values or
	// unbroken blobs of 20+ url-safe characters.
	IdentifierPattern *regexp.Regexp
	// Lookup resolves an identifier to the referenced category's display name.
	// Optional; without it identifier-shaped values fall through to the default.
	Lookup LookupFunc
}

type Normalizer struct {
	pattern *regexp.Regexp
	lookup  LookupFunc
}

func NewNormalizer(cfg NormalizerConfig) *Normalizer {
	pattern := cfg.IdentifierPattern
	if pattern == nil {
		pattern = defaultIdentifierPattern
	}
	return &Normalizer{
		pattern: pattern,
		lookup:  cfg.Lookup,
	}
}

// synonym table for labels that leaked into the category field over the years.
// Matched by substring on the lowercased value, most specific entries first.
var synonyms = []struct {
	keyword  string
	category SparePartCategory
}{
	{"perangkat lunak", Software},
	{"perangkat keras", Hardware},
	{"bahan habis pakai", Consumable},
	{"habis pakai", Consumable},
	{"sekali pakai", Consumable},
	{"suku cadang", Hardware},
	{"aksesoris", Accessory},
	{"aksesori", Accessory},
	{"aplikasi", Software},
	{"lisensi", Software},
	{"software", Software},
	{"hardware", Hardware},
	{"accessory", Accessory},
	{"accessories", Accessory},
	{"consumable", Consumable},
	{"komponen", Hardware},
}

// Normalize maps a raw category value of unknown shape to exactly one
// SparePartCategory. Resolution order: exact case-insensitive enum match,
// localized synonym table, identifier lookup, then the HARDWARE default with
// ErrCategoryAmbiguous. Idempotent under re-application.
func (n *Normalizer) Normalize(raw string) (SparePartCategory, error) {
	if c, ok := resolveLabel(raw); ok {
		return c, nil
	}

	trimmed := strings.TrimSpace(raw)
	if n.lookup != nil && n.pattern.MatchString(trimmed) {
		if displayName, found := n.lookup(trimmed); found {
			if c, ok := resolveLabel(displayName); ok {
				return c, nil
			}
		}
	}

	return Hardware, ErrCategoryAmbiguous
}

func resolveLabel(raw string) (SparePartCategory, bool) {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	if normalized == "" {
		return "", false
	}

	if c := SparePartCategory(strings.ToUpper(normalized)); c.IsValid() {
		return c, true
	}

	for _, entry := range synonyms {
		if strings.Contains(normalized, entry.keyword) {
			return entry.category, true
		}
	}

	return "", false
}
