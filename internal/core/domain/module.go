package domain

import "strings"

// syntheticMarker is the byte plugins put into the IDs of virtual modules.
const syntheticMarker = "\x00"

// Module is one file-like unit a bundle depends on.
type Module struct {
	// ID identifies the module. For real modules it is the file path.
	ID string
	// Code is the content of the module at bundle time.
	Code string
}

// Synthetic reports whether the module is virtual, i.e. not backed by a file.
func (m Module) Synthetic() bool {
	return IsSyntheticID(m.ID)
}

// IsSyntheticID reports whether id belongs to a virtual module.
func IsSyntheticID(id string) bool {
	return strings.Contains(id, syntheticMarker)
}

// SyntheticID builds a virtual module ID from a name.
func SyntheticID(name string) string {
	return syntheticMarker + name
}
