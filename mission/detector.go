package mission

// Detector is one vision backend able to report the pre-scanned marker
// position. Backends differ in hardware and pipeline; the mission only cares
// whether any of them produced a position.
type Detector interface {
	// Detect returns the detected hint position and whether a detection
	// exists. Position zero is never a valid detection.
	Detect() (pos int, ok bool)
}

// DetectorFunc adapts a plain function to the Detector interface.
type DetectorFunc func() (int, bool)

func (f DetectorFunc) Detect() (int, bool) {
	return f()
}

// ResolveHint tries each detector in declared order and returns the first
// reported position. When none of them (or no detectors at all) produce a
// detection it returns fallback, so a missing hint is a documented default
// rather than an error.
func ResolveHint(detectors []Detector, fallback int) (pos int, detected bool) {
	for _, d := range detectors {
		if p, ok := d.Detect(); ok && p != 0 {
			return p, true
		}
	}
	return fallback, false
}
