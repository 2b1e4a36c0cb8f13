package render

import (
	"strings"

	"idcard/internal/domain/profile"
)

// ExportFilename builds the download name `{name}-{parish}-{phone}.{ext}`.
// Characters outside [A-Za-z0-9._-] and space become underscores so the name
// is safe for filesystems and Content-Disposition headers; spaces become
// single underscores too. An all-empty profile falls back to "card".
func ExportFilename(p profile.Record, ext string) string {
	parts := make([]string, 0, 3)
	for _, part := range []string{p.Name, p.Parish, p.Phone} {
		if s := sanitizePart(part); s != "" {
			parts = append(parts, s)
		}
	}
	base := strings.Join(parts, "-")
	if base == "" {
		base = "card"
	}
	return base + "." + ext
}

func sanitizePart(s string) string {
	var b strings.Builder
	lastUnderscore := false
	for _, r := range strings.TrimSpace(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
			r == '.', r == '_', r == '-':
			b.WriteRune(r)
			lastUnderscore = false
		default:
			if !lastUnderscore {
				b.WriteByte('_')
				lastUnderscore = true
			}
		}
	}
	return strings.Trim(b.String(), "_")
}
