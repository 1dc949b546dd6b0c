package querycache

import "strings"

// Key identifies a cached query. Keys are hierarchical: invalidating or
// cancelling a key also affects every key it prefixes, so
// Key{"pages"} covers Key{"pages", "list", ...} and Key{"pages", "detail", id}.
type Key []string

// With returns a new key extended by parts. The receiver is never aliased.
func (k Key) With(parts ...string) Key {
	out := make(Key, 0, len(k)+len(parts))
	out = append(out, k...)
	return append(out, parts...)
}

// HasPrefix reports whether prefix is a leading part of k.
func (k Key) HasPrefix(prefix Key) bool {
	if len(prefix) > len(k) {
		return false
	}
	for i := range prefix {
		if k[i] != prefix[i] {
			return false
		}
	}
	return true
}

// Equal reports whether both keys have the same parts.
func (k Key) Equal(other Key) bool {
	return len(k) == len(other) && k.HasPrefix(other)
}

func (k Key) String() string {
	return strings.Join(k, "/")
}

// hash is the map key; the separator cannot appear in ids.
func (k Key) hash() string {
	return strings.Join(k, "\x00")
}
