// If you are AI: this file implements the monitors configuration model.
// Package monitors implements the monitors configuration: a clamped,
// resizeable list of virtual heads, grounded on the teacher's
// config.ServerConfig.Validate() clamp-and-report style (internal/config/
// validate.go), generalized from a static config validator to a live,
// notifiable piece of channel state.
package monitors

const (
	// MinAllowed is the minimum number of monitors the channel will ever
	// report, regardless of what the server requests.
	MinAllowed = 1
	// HardMax bounds max_allowed from the server.
	HardMax = 256
)

// Head is one virtual display head.
type Head struct {
	ID        uint32
	SurfaceID uint32
	X, Y      int32
	Width     int32
	Height    int32
}

// Config holds the current monitor layout and the clamped max the server
// last advertised.
type Config struct {
	MaxAllowed uint32
	Heads      []Head
}

// clampInt restricts v to the closed interval [lo, hi].
func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Apply clamps maxAllowed to [1,256] and count to [1,maxAllowed], then
// resizes heads to the clamped count, keeping the first min(count,
// len(heads)) entries and zero-filling the rest. It returns the resulting
// Config; callers are responsible for notifying the "monitors" observable.
func Apply(maxAllowed, count int, heads []Head) Config {
	clampedMax := clampInt(maxAllowed, MinAllowed, HardMax)
	clampedCount := clampInt(count, MinAllowed, clampedMax)

	resized := make([]Head, clampedCount)
	copy(resized, heads)

	return Config{MaxAllowed: uint32(clampedMax), Heads: resized}
}

// SynthesizeSingle builds a fallback single-monitor config at (0,0,
// width, height), used when the channel lacks the monitors-config
// capability and a primary surface exists.
func SynthesizeSingle(surfaceID uint32, width, height int32) Config {
	return Config{
		MaxAllowed: 1,
		Heads: []Head{{
			ID:        0,
			SurfaceID: surfaceID,
			X:         0,
			Y:         0,
			Width:     width,
			Height:    height,
		}},
	}
}
