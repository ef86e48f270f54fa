package utils

import (
	"strings"
)

// finishHex holds swatch colors for the standard cabinet finishes.
// Keys are lowercase.
var finishHex = map[string]string{
	"white":         "#f7f7f4",
	"pure white":    "#ffffff",
	"white shaker":  "#f4f3ee",
	"antique white": "#ece3cf",
	"gray":          "#9a9a98",
	"grey":          "#9a9a98",
	"gray shaker":   "#8e9192",
	"dove gray":     "#b9b7b0",
	"charcoal":      "#3b3d3f",
	"black":         "#1d1d1d",
	"espresso":      "#3b2a22",
	"navy":          "#26334a",
	"navy blue":     "#26334a",
	"sage":          "#9caf88",
	"sage green":    "#9caf88",
	"natural oak":   "#c8a472",
	"oak":           "#c8a472",
	"walnut":        "#6b4a33",
	"cherry":        "#8a3b26",
	"maple":         "#d9b382",
	"birch":         "#e2cfa5",
	"cinnamon":      "#8d5530",
	"chocolate":     "#4a2f22",
}

// FinishHex maps a finish name to its swatch color.
// Input is normalized to lowercase; unknown finishes return "".
func FinishHex(finish string) string {
	key := strings.Join(strings.Fields(strings.ToLower(finish)), " ")
	return finishHex[key]
}
