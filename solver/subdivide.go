package solver

// Subdivide splits the global index range [0, n) into np contiguous,
// non-overlapping ranges with a maximum imbalance of one cell, the
// remainder spread over the first n mod np ranges. Deterministic; computed
// once at solver construction.
func Subdivide(n, np int) (ranges [][2]int) {
	var (
		width     = n / np
		remainder = n % np
	)
	ranges = make([][2]int, np)
	for part := 0; part < np; part++ {
		var startAdd, endAdd int
		if remainder != 0 {
			if part+1 > remainder {
				startAdd = remainder
			} else {
				startAdd = part
				endAdd = 1
			}
		}
		ranges[part][0] = part*width + startAdd
		ranges[part][1] = ranges[part][0] + width + endAdd
	}
	return
}
