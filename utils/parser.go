package utils

import (
	"regexp"
	"strconv"
	"strings"
)

// priceRegex finds the first price-like number in a string. It handles
// integers (1,079), decimals (4.50) and thousand separators.
var priceRegex = regexp.MustCompile(`[\d,]+(?:\.\d+)?`)

// ParsePrice extracts a price from free text such as "$4.50", "Price $12.00"
// or "Was $9.00 | $2.50 per 100g". Non-numeric text yields 0, not an error:
// a missing price must never abort extracting the rest of a product.
func ParsePrice(s string) float64 {
	if s == "" {
		return 0
	}

	found := priceRegex.FindString(s)
	if found == "" {
		return 0
	}

	cleaned := strings.ReplaceAll(found, ",", "")
	price, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0
	}
	return price
}

// ParseLabelledPrice reads the value from a labelled price string, e.g.
// "Price $4.50" with label "Price $". Returns 0 when the label is absent or
// the remainder is not a number.
func ParseLabelledPrice(s, label string) float64 {
	_, after, ok := strings.Cut(s, label)
	if !ok {
		return 0
	}
	return ParsePrice(after)
}
