package sorts

// Selection produces one step per swap of the minimum into place. Positions that
// already hold their minimum produce nothing.
func Selection(input []int) Seq {
	return func(yield func(Step) bool) {
		r, ok := start(input, yield)
		if !ok {
			return
		}
		n := len(r.arr)
		for i := 0; i < n; i++ {
			minIdx := i
			for j := i + 1; j < n; j++ {
				if r.arr[j] < r.arr[minIdx] {
					minIdx = j
				}
			}
			if minIdx != i {
				if !r.swap(i, minIdx) {
					return
				}
			}
		}
	}
}
