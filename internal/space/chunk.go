package space

// Chunk splits items into consecutive chunks of at most n elements,
// preserving order. n <= 0 yields a single chunk.
func Chunk[T any](items []T, n int) [][]T {
	if len(items) == 0 {
		return nil
	}
	if n <= 0 {
		n = len(items)
	}
	chunks := make([][]T, 0, (len(items)+n-1)/n)
	for start := 0; start < len(items); start += n {
		end := min(start+n, len(items))
		chunks = append(chunks, items[start:end:end])
	}
	return chunks
}
