package pantry

import (
	"regexp"
	"strings"
)

var (
	bulletPrefixes = []string{"- ", "* ", "• ", "· ", "•", "-"}

	// Price fragments like $5.99, 5.99€, £5.99.
	pricePattern        = regexp.MustCompile(`[\$€£¥]\s*\d+\.?\d*|\d+\.?\d*\s*[\$€£¥]`)
	nonAlphaPattern     = regexp.MustCompile(`[^a-zA-Z\s]`)
	sectionHeaderWords  = []string{"appetizers", "entrees", "mains", "desserts", "drinks", "beverages", "starters", "salads", "soups", "sides", "specials", "menu", "price"}
	descriptionMarkers  = []string{"description", "ingredients", "served with", "comes with", "includes"}
	minMeaningfulLength = 2
)

// ParseMenuItems parses raw menu text into clean food item names.
// It splits by line, strips bullets and prices, skips section headers and
// description lines, drops mostly-symbolic lines, and deduplicates while
// preserving order.
func ParseMenuItems(menuText string) []string {
	if menuText == "" {
		return nil
	}

	seen := make(map[string]struct{})
	var items []string

	for _, raw := range strings.Split(menuText, "\n") {
		line := strings.TrimSpace(raw)

		for _, prefix := range bulletPrefixes {
			if strings.HasPrefix(line, prefix) {
				line = strings.TrimSpace(strings.TrimPrefix(line, prefix))
			}
		}

		if len(line) < minMeaningfulLength {
			continue
		}

		line = strings.TrimSpace(pricePattern.ReplaceAllString(line, ""))

		lower := strings.ToLower(line)
		if containsAny(lower, sectionHeaderWords) || containsAny(lower, descriptionMarkers) {
			continue
		}

		// Mostly numbers or symbols: not a dish name. Lines with strictly
		// fewer letters than half their length are dropped, odd lengths
		// rounding against the line.
		letters := nonAlphaPattern.ReplaceAllString(line, "")
		if 2*len(letters) < len(line) {
			continue
		}

		if len(line) < minMeaningfulLength {
			continue
		}
		if _, dup := seen[line]; dup {
			continue
		}
		seen[line] = struct{}{}
		items = append(items, line)
	}
	return items
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
