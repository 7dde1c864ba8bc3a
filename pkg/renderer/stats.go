package renderer

import "time"

// RenderStats contains statistics about one rendered frame
type RenderStats struct {
	Width       int           // Image width in pixels
	Height      int           // Image height in pixels
	TotalPixels int           // Total number of pixels rendered
	Workers     int           // Size of the worker pool
	Bands       int           // Number of bands, one per worker
	Elapsed     time.Duration // Wall time from dispatch to assembled buffer
	SlowestBand time.Duration // Longest time any single band took
	FastestBand time.Duration // Shortest time any non-empty band took
}

// PixelsPerSecond returns the frame throughput
func (rs RenderStats) PixelsPerSecond() float64 {
	if rs.Elapsed <= 0 {
		return 0
	}
	return float64(rs.TotalPixels) / rs.Elapsed.Seconds()
}

// Imbalance returns how much longer the slowest band took than the fastest, as a ratio.
// 1 means perfectly balanced bands.
func (rs RenderStats) Imbalance() float64 {
	if rs.FastestBand <= 0 {
		return 1
	}
	return float64(rs.SlowestBand) / float64(rs.FastestBand)
}

// addBand folds one band's timing into the stats
func (rs *RenderStats) addBand(rows int, elapsed time.Duration) {
	rs.SlowestBand = max(rs.SlowestBand, elapsed)
	if rows == 0 {
		return
	}
	if rs.FastestBand == 0 || elapsed < rs.FastestBand {
		rs.FastestBand = elapsed
	}
}
