package store

// State describes how one half of the snapshot was loaded.
type State int

const (
	// StateMissing means the file does not exist; the half is empty because it was never saved.
	StateMissing State = iota
	// StateLoaded means the file was read and parsed.
	StateLoaded
	// StateCorrupt means the file exists but could not be read or parsed; the half is empty.
	StateCorrupt
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateMissing:
		return "missing"
	case StateLoaded:
		return "loaded"
	case StateCorrupt:
		return "corrupt"
	default:
		return "unknown"
	}
}

// HalfReport is the outcome of loading one snapshot file.
type HalfReport struct {
	State State
	Err   error // *errors.CacheCorruptError when State is StateCorrupt
}

// LoadReport is the outcome of Store.Load.
type LoadReport struct {
	Items      HalfReport
	Categories HalfReport
}

// Complete reports whether both halves were loaded.
func (r LoadReport) Complete() bool {
	return r.Items.State == StateLoaded && r.Categories.State == StateLoaded
}

// Corrupt reports whether either half was corrupt.
func (r LoadReport) Corrupt() bool {
	return r.Items.State == StateCorrupt || r.Categories.State == StateCorrupt
}
