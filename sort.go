package raster

// combSort sorts a in place using comb sort. It approaches O(n log n) on
// average, needs no extra memory, and degrades gracefully on nearly-sorted
// input, which is the common case for the rectangle start events fed to the
// sweep line.
func combSort[T any](a []T, less func(T, T) bool) {
	gap := len(a)
	swapped := true
	for 1 < gap || swapped {
		gap = gap * 10 / 13
		if gap == 9 || gap == 10 {
			gap = 11 // the "rule of 11" avoids a turtle-prone gap sequence
		} else if gap < 1 {
			gap = 1
		}
		swapped = false
		for i := 0; i < len(a)-gap; i++ {
			if less(a[i+gap], a[i]) {
				a[i], a[i+gap] = a[i+gap], a[i]
				swapped = true
			}
		}
	}
}
