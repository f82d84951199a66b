package auth

import "strings"

// CookiePair is one name=value entry of a Cookie header
type CookiePair struct {
	Name  string
	Value string
}

// ParseCookieHeader splits a Cookie header into its entries, in order.
// Names and values are trimmed, entries with no '=' or an empty name are
// dropped and duplicates are kept.
func ParseCookieHeader(header string) []CookiePair {
	if header == "" {
		return nil
	}

	parts := strings.Split(header, ";")
	pairs := make([]CookiePair, 0, len(parts))

	for _, part := range parts {
		name, value, ok := strings.Cut(part, "=")
		if !ok {
			continue
		}

		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}

		pairs = append(pairs, CookiePair{
			Name:  name,
			Value: strings.TrimSpace(value),
		})
	}

	return pairs
}

// LookupCookie returns the value of the first cookie called name
func LookupCookie(header, name string) (string, bool) {
	for _, pair := range ParseCookieHeader(header) {
		if pair.Name == name {
			return pair.Value, true
		}
	}
	return "", false
}
