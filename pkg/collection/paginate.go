package collection

// Paginate returns page n (1-based) of items with the given page size.
// Out-of-range pages and non-positive sizes yield an empty slice.
func Paginate[R any](items []R, n, size int) []R {
	if n < 1 || size <= 0 {
		return []R{}
	}
	start := (n - 1) * size
	if start >= len(items) {
		return []R{}
	}
	end := start + size
	if end > len(items) {
		end = len(items)
	}
	out := make([]R, end-start)
	copy(out, items[start:end])
	return out
}

// TotalPages is ceil(count/size); zero for an empty set or a non-positive size.
func TotalPages(count, size int) int {
	if count <= 0 || size <= 0 {
		return 0
	}
	return (count + size - 1) / size
}
