package layout

// Topology describes how the strip is wired: one run of Count LEDs, or two
// equal segments in series that animate symmetrically from the middle.
type Topology struct {
	Count    int
	Mirrored bool
}

// Middle is the first index of the upper segment on a mirrored strip.
func (t Topology) Middle() int {
	return t.Count / 2
}

// UpEnd is the exclusive upper bound for pixels animated upward.
func (t Topology) UpEnd() int {
	if t.Mirrored {
		return t.Middle()
	}
	return t.Count
}

// DownEnd is the inclusive lower bound for pixels animated downward.
func (t Topology) DownEnd() int {
	if t.Mirrored {
		return t.Middle()
	}
	return 0
}

// Mirror maps an index to its partner on the other segment.
func (t Topology) Mirror(i int) int {
	return t.Count - 1 - i
}

// InRange reports whether i addresses a physical LED.
func (t Topology) InRange(i int) bool {
	return i >= 0 && i < t.Count
}

// InUp reports whether i may be written by an upward-moving pulse.
func (t Topology) InUp(i int) bool {
	return i >= 0 && i < t.UpEnd() && i < t.Count
}

// InDown reports whether i may be written by a downward-moving pulse.
func (t Topology) InDown(i int) bool {
	return i >= t.DownEnd() && i >= 0 && i < t.Count
}
