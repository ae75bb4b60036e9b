package infra

type Signed interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64
}

// Unsigned is a constraint that permits any unsigned integer type.
// If future releases of Go add new predeclared unsigned integer types,
// this constraint will be modified to include them.
type Unsigned interface {
	~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
}

// Integer is a constraint that permits any integer type.
// If future releases of Go add new predeclared integer types,
// this constraint will be modified to include them.
type Integer interface {
	Signed | Unsigned
}

// Float is a constraint that permits any floating-point type.
// If future releases of Go add new predeclared floating-point types,
// this constraint will be modified to include them.
type Float interface {
	~float32 | ~float64
}

// OrderedKey
// byte => ~uint8
type OrderedKey interface {
	Integer | Float | ~string
}

// Comparator is the three-way ordering capability a container routes every
// key decision through. It must implement a strict total order and stay
// consistent for the container's whole lifetime; no runtime check guards
// against a rule that contradicts itself.
// Assume i is the reference key.
//  1. i == j (return 0)
//  2. i > j (return a positive value), turn to right part.
//  3. i < j (return a negative value), turn to left part.
type Comparator[K any] func(i, j K) int64

// OrderedCompare builds the natural ascending comparator for any key type
// covered by the OrderedKey constraint.
func OrderedCompare[K OrderedKey]() Comparator[K] {
	return func(i, j K) int64 {
		if i == j {
			return 0
		} else if i < j {
			return -1
		}
		return 1
	}
}

// Reverse adapts a comparator into its mirrored (descending) order.
func Reverse[K any](cmp Comparator[K]) Comparator[K] {
	if cmp == nil {
		return nil
	}
	return func(i, j K) int64 {
		return -cmp(i, j)
	}
}
