package sources

// Chunk splits items into consecutive batches of at most size elements.
// Marketplace import endpoints cap the number of items per request, so
// sinks feed their payloads through this before uploading. A non-positive
// size yields a single batch.
func Chunk[T any](items []T, size int) [][]T {
	if len(items) == 0 {
		return nil
	}
	if size <= 0 {
		return [][]T{items}
	}

	batches := make([][]T, 0, (len(items)+size-1)/size)
	for size < len(items) {
		batches = append(batches, items[:size])
		items = items[size:]
	}
	return append(batches, items)
}
