package solver

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSubdivide(t *testing.T) {
	{ // Remainder cells go to the leading ranges
		assert.Equal(t, [][2]int{{0, 3}, {3, 6}, {6, 8}}, Subdivide(8, 3))
		assert.Equal(t, [][2]int{{0, 10}}, Subdivide(10, 1))
		assert.Equal(t, [][2]int{{0, 1}, {1, 2}, {2, 3}}, Subdivide(3, 3))
	}
	{ // Ranges are contiguous, cover [0, n), and are balanced to one cell
		for n := 16; n < 1200; n += 7 {
			for np := 1; np <= 17; np++ {
				if n < np {
					continue
				}
				var (
					ranges       = Subdivide(n, np)
					total        int
					wmin, wmax   = n, 0
				)
				assert.Equal(t, 0, ranges[0][0])
				assert.Equal(t, n, ranges[np-1][1])
				for p, r := range ranges {
					if p > 0 {
						assert.Equal(t, ranges[p-1][1], r[0])
					}
					w := r[1] - r[0]
					total += w
					if w < wmin {
						wmin = w
					}
					if w > wmax {
						wmax = w
					}
				}
				assert.Equal(t, n, total)
				assert.LessOrEqual(t, wmax-wmin, 1)
			}
		}
	}
}
