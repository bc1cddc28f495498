package gravatar

import (
	"crypto/md5"
	"fmt"
	"strings"
)

// URL derives a deterministic avatar URL from an email address
// (200px, pg-rated, "mystery man" fallback).
func URL(email string) string {
	normalized := strings.ToLower(strings.TrimSpace(email))
	hash := md5.Sum([]byte(normalized))
	return fmt.Sprintf("https://www.gravatar.com/avatar/%x?s=200&r=pg&d=mm", hash)
}
