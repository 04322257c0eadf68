package category

import (
	"fmt"
	"strings"
)

// SparePartCategory is the closed set of categories a spare part may carry.
// The storage layer accepts only these literals; anything else must pass
// through the Normalizer first.
type SparePartCategory string

const (
	Hardware   SparePartCategory = "HARDWARE"
	Software   SparePartCategory = "SOFTWARE"
	Accessory  SparePartCategory = "ACCESSORY"
	Consumable SparePartCategory = "CONSUMABLE"
)

func All() []SparePartCategory {
	return []SparePartCategory{Hardware, Software, Accessory, Consumable}
}

func (c SparePartCategory) IsValid() bool {
	switch c {
	case Hardware, Software, Accessory, Consumable:
		return true
	default:
		return false
	}
}

func (c SparePartCategory) String() string {
	return string(c)
}

// New validates a value that is already expected to be an enum literal.
// Use Normalizer for values of unknown shape.
func New(value string) (SparePartCategory, error) {
	c := SparePartCategory(strings.ToUpper(strings.TrimSpace(value)))
	if !c.IsValid() {
		return "", fmt.Errorf("invalid spare part category: %s", value)
	}
	return c, nil
}
