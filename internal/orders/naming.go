package orders

import (
	"fmt"
	"strings"
)

// SuggestName builds a cosmetic order label from the customer, material and
// sequence number. Purely presentational; callers may override it freely.
func SuggestName(customerName, abjourType, mainColor string, seq int64) string {
	first := strings.TrimSpace(customerName)
	if idx := strings.IndexByte(first, ' '); idx > 0 {
		first = first[:idx]
	}
	parts := []string{}
	if first != "" {
		parts = append(parts, first)
	}
	if t := strings.TrimSpace(abjourType); t != "" {
		parts = append(parts, t)
	}
	if c := strings.TrimSpace(mainColor); c != "" {
		parts = append(parts, c)
	}
	if len(parts) == 0 {
		return fmt.Sprintf("Order #%d", seq)
	}
	return fmt.Sprintf("%s #%d", strings.Join(parts, " "), seq)
}
