package service

import (
	"fmt"
	"strings"
	"time"
	"unicode"
)

// Slugify turns a package name into a URL-safe identifier: lowercase,
// runs of non-alphanumerics collapsed to single hyphens.
func Slugify(name string) string {
	var b strings.Builder
	lastHyphen := true // suppress a leading hyphen

	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}

	return strings.TrimRight(b.String(), "-")
}

// slugSuffix is the short numeric tail appended on collision, derived
// from the current time so two same-named packages stay distinct.
func slugSuffix(now time.Time) string {
	return fmt.Sprintf("%05d", now.UnixMilli()%100000)
}
