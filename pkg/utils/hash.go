package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"
)

func HashString(input string) string {
	sum := sha256.Sum256([]byte(input))
	return hex.EncodeToString(sum[:])
}

// DatasetKey identifies an analysis by its input text and department filter.
// The filter is treated as a set, so its order does not change the key.
func DatasetKey(text string, departments []string) string {
	sorted := append([]string(nil), departments...)
	sort.Strings(sorted)

	h := sha256.New()
	h.Write([]byte(text))
	h.Write([]byte{0})
	h.Write([]byte(strings.Join(sorted, "\x1f")))
	return hex.EncodeToString(h.Sum(nil))
}
