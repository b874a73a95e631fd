// Package position computes the numeric sort keys that order sibling
// entities: columns within a board and cards within a column.
//
// Keys are spaced by a fixed unit so append-only insertion never needs
// to touch existing siblings, and relabeled densely after a reorder so
// gaps never shrink without bound from repeated drops at the same spot.
package position

// Unit is the spacing between consecutive position keys.
const Unit = 1000.0

// Next returns the key for appending after the given siblings' keys:
// the last key plus Unit, or Unit for an empty list. Keys are strictly
// increasing as long as insertion is append-only.
func Next(siblings []float64) float64 {
	if len(siblings) == 0 {
		return Unit
	}
	return siblings[len(siblings)-1] + Unit
}

// Resequence returns n dense keys, (index+1)*Unit for index 0..n-1.
// It is a total, order-preserving relabeling: the i-th entity of the
// input order receives the i-th smallest key.
func Resequence(n int) []float64 {
	keys := make([]float64, n)
	for i := range keys {
		keys[i] = float64(i+1) * Unit
	}
	return keys
}
