package mines

import "iter"

// combinations yields every way of choosing k out of the first n
// positions as a mask over 8 slots, in lexicographic index order. Each
// subset is produced exactly once, C(n, k) masks in total; k = 0 yields
// a single empty mask. The sequence can be iterated multiple times.
func combinations(n, k int) iter.Seq[[8]bool] {
	return func(yield func([8]bool) bool) {
		if k > n {
			return
		}

		indices := make([]int, k)
		for i := range indices {
			indices[i] = i
		}

		for {
			var mask [8]bool
			for _, idx := range indices {
				mask[idx] = true
			}
			if !yield(mask) {
				return
			}

			// Advance the rightmost index that still has room, then
			// reset the ones after it to consecutive values.
			i := k - 1
			for i >= 0 && indices[i] == n-k+i {
				i--
			}
			if i < 0 {
				return
			}
			indices[i]++
			for j := i + 1; j < k; j++ {
				indices[j] = indices[j-1] + 1
			}
		}
	}
}
