package hashutil

import (
	"crypto/sha256"
	"fmt"
	"strings"
)

// ShortID derives a 7-character hex ID from parts. The same parts always
// give the same ID.
func ShortID(parts ...string) string {
	hash := sha256.Sum256([]byte(strings.Join(parts, "\x00")))
	return fmt.Sprintf("%x", hash[:4])[:7]
}
