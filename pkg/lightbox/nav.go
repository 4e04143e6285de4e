package lightbox

// wrapNext returns the index after i in a ring of n.
func wrapNext(i, n int) int {
	if n <= 0 {
		return 0
	}
	return (i + 1) % n
}

// wrapPrev returns the index before i in a ring of n.
func wrapPrev(i, n int) int {
	if n <= 0 {
		return 0
	}
	return (i - 1 + n) % n
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
