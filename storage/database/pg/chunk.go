package pgrepos

// Chunk sizes respecting backend payload and query parameter limits.
const (
	insertChunkSize = 1000 // rows per bulk insert
	selectChunkSize = 50   // ids per membership filter
)

// chunkBounds splits [0,n) into consecutive [start,end) ranges of at most
// size elements.
func chunkBounds(n, size int) [][2]int {
	if n <= 0 {
		return nil
	}
	bounds := make([][2]int, 0, (n+size-1)/size)
	for start := 0; start < n; start += size {
		end := start + size
		if end > n {
			end = n
		}
		bounds = append(bounds, [2]int{start, end})
	}
	return bounds
}
