package sorts

// Bubble runs every pass of bubble sort without the usual early exit, producing one
// step per adjacent swap.
func Bubble(input []int) Seq {
	return func(yield func(Step) bool) {
		r, ok := start(input, yield)
		if !ok {
			return
		}
		n := len(r.arr)
		for i := 0; i < n; i++ {
			for j := 0; j < n-i-1; j++ {
				if r.arr[j] > r.arr[j+1] {
					if !r.swap(j, j+1) {
						return
					}
				}
			}
		}
	}
}
