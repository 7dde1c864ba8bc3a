package renderer

// Band is a contiguous range of image rows [Y0, Y1) rendered by one worker
type Band struct {
	Index int
	Y0    int
	Y1    int
}

// Rows returns the number of rows in the band
func (b Band) Rows() int {
	return b.Y1 - b.Y0
}

// PartitionBands splits height rows into n contiguous bands where band i covers
// [i*height/n, (i+1)*height/n). Every row belongs to exactly one band; when n > height
// some bands are empty.
func PartitionBands(height, n int) []Band {
	bands := make([]Band, n)
	for i := 0; i < n; i++ {
		bands[i] = Band{
			Index: i,
			Y0:    i * height / n,
			Y1:    (i + 1) * height / n,
		}
	}
	return bands
}
