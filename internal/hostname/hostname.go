// Package hostname normalizes and validates the custom domains users attach
// to the hosting site.
package hostname

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/belonio2793/backlinkoo-solar-system-sub047/internal/models"
)

// pattern accepts labels of 1-63 alphanumerics with inner hyphens and a
// TLD of at least two letters.
var pattern = regexp.MustCompile(`^([a-z0-9]([a-z0-9-]{0,61}[a-z0-9])?\.)+[a-z]{2,}$`)

// Normalize lowercases raw and strips scheme, "www.", path, port and
// trailing dots or slashes. "https://www.Example.com/blog/" -> "example.com".
func Normalize(raw string) string {
	h := strings.ToLower(strings.TrimSpace(raw))
	for _, scheme := range []string{"https://", "http://"} {
		h = strings.TrimPrefix(h, scheme)
	}
	if i := strings.IndexAny(h, "/?#"); i >= 0 {
		h = h[:i]
	}
	if i := strings.LastIndexByte(h, ':'); i >= 0 {
		h = h[:i]
	}
	h = strings.TrimPrefix(h, "www.")
	return strings.TrimRight(h, "./")
}

// Validate checks an already-normalized hostname.
func Validate(host string) error {
	if len(host) > 253 || !pattern.MatchString(host) {
		return fmt.Errorf("%w: %q", models.ErrInvalidDomain, host)
	}
	for _, label := range strings.Split(host, ".") {
		if len(label) > 63 {
			return fmt.Errorf("%w: label too long in %q", models.ErrInvalidDomain, host)
		}
	}
	return nil
}

// Parse normalizes then validates raw.
func Parse(raw string) (string, error) {
	host := Normalize(raw)
	if err := Validate(host); err != nil {
		return "", err
	}
	return host, nil
}

// ParseAll normalizes every input, returning the valid hostnames in first-seen
// order without duplicates and the raw inputs that failed validation.
func ParseAll(raws []string) (valid, invalid []string) {
	seen := make(map[string]struct{}, len(raws))
	for _, raw := range raws {
		host, err := Parse(raw)
		if err != nil {
			if strings.TrimSpace(raw) != "" {
				invalid = append(invalid, raw)
			}
			continue
		}
		if _, dup := seen[host]; dup {
			continue
		}
		seen[host] = struct{}{}
		valid = append(valid, host)
	}
	return valid, invalid
}

// IsApex reports whether host has exactly two labels.
func IsApex(host string) bool {
	return strings.Count(host, ".") == 1
}

// Contains reports whether list holds host. Entries are compared
// case-insensitively as they are, so "www.example.com" does not match
// "example.com".
func Contains(list []string, host string) bool {
	for _, h := range list {
		if sameHost(h, host) {
			return true
		}
	}
	return false
}

func sameHost(entry, host string) bool {
	return strings.EqualFold(strings.TrimSpace(entry), host)
}

// Merge returns current unchanged followed by the normalized entries of
// incoming not already in it. added lists those new entries.
func Merge(current, incoming []string) (merged, added []string) {
	merged = make([]string, 0, len(current)+len(incoming))
	merged = append(merged, current...)
	for _, h := range incoming {
		n := Normalize(h)
		if n == "" || Contains(merged, n) {
			continue
		}
		merged = append(merged, n)
		added = append(added, n)
	}
	return merged, added
}

// Without returns list minus the entries equal to host, and whether any
// were present. Other entries are kept as they are.
func Without(list []string, host string) ([]string, bool) {
	out := make([]string, 0, len(list))
	found := false
	for _, h := range list {
		if sameHost(h, host) {
			found = true
			continue
		}
		out = append(out, h)
	}
	return out, found
}
