package slices

// KeysOf returns keys of the map, in no particular order.
func KeysOf[K comparable, V any](m map[K]V) []K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}

// Map converts []T to []R, applying mapper for each element.
func Map[T any, R any](sli []T, mapper func(T) R) []R {
	if sli == nil {
		return nil
	}
	mapped := make([]R, len(sli))
	for i, v := range sli {
		mapped[i] = mapper(v)
	}
	return mapped
}

// First finds the first element satisfying pred.
//
// When no elements satisfy it, (zero value, false) is returned.
func First[T any](sli []T, pred func(T) bool) (T, bool) {
	for _, v := range sli {
		if pred(v) {
			return v, true
		}
	}
	return *new(T), false
}
