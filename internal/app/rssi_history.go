package app

// RSSIRing is a circular buffer of the RSSI values shown on screen.
type RSSIRing struct {
	buf   []float64
	pos   int
	count int
}

// NewRSSIRing creates a new circular buffer with the given capacity.
func NewRSSIRing(capacity int) *RSSIRing {
	if capacity < 1 {
		capacity = 1
	}
	return &RSSIRing{
		buf: make([]float64, capacity),
	}
}

// Push adds a value, overwriting the oldest once full.
func (r *RSSIRing) Push(val float64) {
	r.buf[r.pos] = val
	r.pos = (r.pos + 1) % len(r.buf)
	if r.count < len(r.buf) {
		r.count++
	}
}

// Values returns all stored values in chronological order.
func (r *RSSIRing) Values() []float64 {
	if r.count == 0 {
		return nil
	}
	start := (r.pos - r.count + len(r.buf)) % len(r.buf)
	result := make([]float64, 0, r.count)
	for i := 0; i < r.count; i++ {
		result = append(result, r.buf[(start+i)%len(r.buf)])
	}
	return result
}

// Reset drops all values.
func (r *RSSIRing) Reset() {
	r.pos = 0
	r.count = 0
}

// Len returns the number of stored values.
func (r *RSSIRing) Len() int {
	return r.count
}
