package sorts

// Heap builds a max-heap and then repeatedly moves the root behind the shrinking
// heap. Sift swaps and root extractions are steps.
func Heap(input []int) Seq {
	return func(yield func(Step) bool) {
		r, ok := start(input, yield)
		if !ok {
			return
		}
		n := len(r.arr)
		for i := n/2 - 1; i >= 0; i-- {
			if !r.heapify(n, i) {
				return
			}
		}
		for i := n - 1; i > 0; i-- {
			if !r.swap(0, i) || !r.heapify(i, 0) {
				return
			}
		}
	}
}

func (r *run) heapify(n, i int) bool {
	largest := i
	left, right := 2*i+1, 2*i+2
	if left < n && r.arr[left] > r.arr[largest] {
		largest = left
	}
	if right < n && r.arr[right] > r.arr[largest] {
		largest = right
	}
	if largest == i {
		return true
	}
	return r.swap(i, largest) && r.heapify(n, largest)
}
