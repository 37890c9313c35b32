package utility

import (
	"math/rand/v2"

	"github.com/google/uuid"
)

// Shuffle reorders xs in place (Fisher-Yates).
func Shuffle[T any](xs []T) {
	for i := len(xs) - 1; i > 0; i-- {
		j := rand.IntN(i + 1)
		xs[i], xs[j] = xs[j], xs[i]
	}
}

// Contains reports whether x is an element of xs.
func Contains[T comparable](xs []T, x T) bool {
	for _, v := range xs {
		if v == x {
			return true
		}
	}
	return false
}

// Intersect returns the elements of a that also appear in b, in a's order.
// Duplicates in a are kept.
func Intersect[T comparable](a, b []T) []T {
	lookup := make(map[T]struct{}, len(b))
	for _, v := range b {
		lookup[v] = struct{}{}
	}
	out := make([]T, 0, len(a))
	for _, v := range a {
		if _, ok := lookup[v]; ok {
			out = append(out, v)
		}
	}
	return out
}

// DiffBy returns the elements of source whose key is not produced by any
// element of others.
func DiffBy[T any, K comparable](source, others []T, key func(T) K) []T {
	return DiffBy2D(source, [][]T{others}, key)
}

// DiffBy2D is DiffBy against the union of several slices.
func DiffBy2D[T any, K comparable](source []T, others [][]T, key func(T) K) []T {
	seen := make(map[K]struct{})
	for _, group := range others {
		for _, v := range group {
			seen[key(v)] = struct{}{}
		}
	}
	out := make([]T, 0, len(source))
	for _, v := range source {
		if _, ok := seen[key(v)]; !ok {
			out = append(out, v)
		}
	}
	return out
}

// GroupBy buckets xs by key, preserving order within each bucket.
func GroupBy[T any, K comparable](xs []T, key func(T) K) map[K][]T {
	out := make(map[K][]T)
	for _, v := range xs {
		k := key(v)
		out[k] = append(out[k], v)
	}
	return out
}

// GUID returns a random RFC 4122 identifier.
func GUID() string {
	return uuid.NewString()
}
