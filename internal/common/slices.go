package common

// Contains reports whether the slice contains the given element.
func Contains[S ~[]E, E comparable](s S, e E) bool {
	for _, v := range s {
		if v == e {
			return true
		}
	}

	return false
}

// Remove returns the slice with the first occurrence of e removed,
// preserving order.
func Remove[S ~[]E, E comparable](s S, e E) S {
	for i, v := range s {
		if v == e {
			return append(s[:i:i], s[i+1:]...)
		}
	}

	return s
}

// CopyMap returns a shallow copy of the map.
func CopyMap[M ~map[K]V, K comparable, V any](m M) M {
	out := make(M, len(m))
	for k, v := range m {
		out[k] = v
	}

	return out
}
