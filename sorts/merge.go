package sorts

import "slices"

// Merge is top-down merge sort. The left half is fully sorted before the right half,
// and every element written back during a merge is a step.
func Merge(input []int) Seq {
	return func(yield func(Step) bool) {
		r, ok := start(input, yield)
		if !ok {
			return
		}
		r.mergeSort(0, len(r.arr)-1)
	}
}

func (r *run) mergeSort(left, right int) bool {
	if left >= right {
		return true
	}
	mid := (left + right) / 2
	return r.mergeSort(left, mid) &&
		r.mergeSort(mid+1, right) &&
		r.merge(left, mid, right)
}

func (r *run) merge(left, mid, right int) bool {
	lpart := slices.Clone(r.arr[left : mid+1])
	rpart := slices.Clone(r.arr[mid+1 : right+1])
	i, j, k := 0, 0, left
	write := func(v int) bool {
		r.arr[k] = v
		k++
		return r.emit()
	}
	for i < len(lpart) && j < len(rpart) {
		var v int
		if lpart[i] <= rpart[j] {
			v = lpart[i]
			i++
		} else {
			v = rpart[j]
			j++
		}
		if !write(v) {
			return false
		}
	}
	for ; i < len(lpart); i++ {
		if !write(lpart[i]) {
			return false
		}
	}
	for ; j < len(rpart); j++ {
		if !write(rpart[j]) {
			return false
		}
	}
	return true
}
