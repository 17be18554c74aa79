package common

type number interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

// IsInRange checks if a value is within the specified range, both inclusive.
// NaN is never in range.
func IsInRange[T number](lo, value, hi T) bool {
	return lo <= value && value <= hi
}

// IsScore reports whether v is a similarity score or threshold in [0,1].
func IsScore(v float64) bool {
	return IsInRange(0, v, 1)
}
