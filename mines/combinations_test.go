package mines

import (
	"fmt"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// naive multiplicative binomial coefficient
func binomial(n, k int) int {
	if k > n {
		return 0
	}
	res := 1
	for i := 0; i < k; i++ {
		res = res * (n - i) / (i + 1)
	}
	return res
}

func TestCombinationsProperties(t *testing.T) {
	t.Parallel()

	for n := 0; n <= 8; n++ {
		for k := 0; k <= n; k++ {
			t.Run(fmt.Sprintf("%d_choose_%d", n, k), func(t *testing.T) {
				seen := make(map[[8]bool]bool)
				for mask := range combinations(n, k) {
					bits := 0
					for i, set := range mask {
						if set {
							bits++
							assert.Less(t, i, n, "bit outside the first %d positions", n)
						}
					}
					assert.Equal(t, k, bits)
					assert.False(t, seen[mask], "mask %v yielded twice", mask)
					seen[mask] = true
				}
				assert.Len(t, seen, binomial(n, k))
			})
		}
	}
}

func TestCombinationsOrder(t *testing.T) {
	t.Parallel()

	mask := func(idx ...int) (m [8]bool) {
		for _, i := range idx {
			m[i] = true
		}
		return m
	}

	tests := []struct {
		name string
		n, k int
		want [][8]bool
	}{
		{name: "0 choose 0", n: 0, k: 0, want: [][8]bool{{}}},
		{name: "1 choose 0", n: 1, k: 0, want: [][8]bool{{}}},
		{name: "1 choose 1", n: 1, k: 1, want: [][8]bool{mask(0)}},
		{name: "2 choose 1", n: 2, k: 1, want: [][8]bool{mask(0), mask(1)}},
		{name: "3 choose 2", n: 3, k: 2, want: [][8]bool{
			mask(0, 1), mask(0, 2), mask(1, 2),
		}},
		{name: "4 choose 2", n: 4, k: 2, want: [][8]bool{
			mask(0, 1), mask(0, 2), mask(0, 3),
			mask(1, 2), mask(1, 3), mask(2, 3),
		}},
		{name: "5 choose 4", n: 5, k: 4, want: [][8]bool{
			mask(0, 1, 2, 3), mask(0, 1, 2, 4), mask(0, 1, 3, 4),
			mask(0, 2, 3, 4), mask(1, 2, 3, 4),
		}},
		{name: "8 choose 8", n: 8, k: 8, want: [][8]bool{
			mask(0, 1, 2, 3, 4, 5, 6, 7),
		}},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got := slices.Collect(combinations(test.n, test.k))
			assert.Equal(t, test.want, got)
		})
	}
}

func TestCombinationsRestartable(t *testing.T) {
	t.Parallel()

	seq := combinations(5, 2)
	first := slices.Collect(seq)
	second := slices.Collect(seq)
	require.Len(t, first, 10)
	assert.Equal(t, first, second)
}
