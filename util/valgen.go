// Some helpers using closures to generate input cells
package valgen

// Gen produces the next input value on each call.
type Gen func() uint64

// MakeConstGen returns a generator that always yields constant.
func MakeConstGen(constant uint64) Gen {
	return func() uint64 {
		return constant
	}
}

// MakeIncreasingGen returns a generator yielding start+1, start+2, ...
func MakeIncreasingGen(start uint64) Gen {
	current := start
	return func() uint64 {
		current++
		return current
	}
}

// MakeStringGen yields the bytes of s, then zeros.
func MakeStringGen(s string) Gen {
	i := 0
	return func() uint64 {
		if i >= len(s) {
			return 0
		}
		b := s[i]
		i++
		return uint64(b)
	}
}

// Take collects n values from g.
func Take(g Gen, n int) []uint64 {
	out := make([]uint64, n)
	for i := range out {
		out[i] = g()
	}
	return out
}

// Terminated collects n values from g followed by a zero, the usual
// end-of-data marker for ",[.,]" style loops.
func Terminated(g Gen, n int) []uint64 {
	return append(Take(g, n), 0)
}
