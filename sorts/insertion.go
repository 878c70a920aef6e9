package sorts

// Insertion produces one step per key placed, however many shifts the placement
// needed.
func Insertion(input []int) Seq {
	return func(yield func(Step) bool) {
		r, ok := start(input, yield)
		if !ok {
			return
		}
		for i := 1; i < len(r.arr); i++ {
			key := r.arr[i]
			j := i - 1
			for j >= 0 && key < r.arr[j] {
				r.arr[j+1] = r.arr[j]
				j--
			}
			r.arr[j+1] = key
			if !r.emit() {
				return
			}
		}
	}
}
