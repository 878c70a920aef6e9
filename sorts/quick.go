package sorts

// Quick is quicksort with the Lomuto partition scheme, pivoting on the last element
// of each range. Every partition swap is a step, including swaps of an element with
// itself, followed by one step for placing the pivot.
func Quick(input []int) Seq {
	return func(yield func(Step) bool) {
		r, ok := start(input, yield)
		if !ok {
			return
		}
		r.quick(0, len(r.arr)-1)
	}
}

func (r *run) quick(low, high int) bool {
	if low >= high {
		return true
	}
	p, ok := r.partition(low, high)
	if !ok {
		return false
	}
	return r.quick(low, p-1) && r.quick(p+1, high)
}

func (r *run) partition(low, high int) (int, bool) {
	pivot := r.arr[high]
	i := low - 1
	for j := low; j < high; j++ {
		if r.arr[j] <= pivot {
			i++
			if !r.swap(i, j) {
				return 0, false
			}
		}
	}
	if !r.swap(i+1, high) {
		return 0, false
	}
	return i + 1, true
}
