package logger

// Entry exposes the fields of errorEntry to the external tests.
type Entry struct {
	Message  string
	Metadata map[string]any
}

// CollectErrorEntries exposes collectErrorEntries to the external tests.
func CollectErrorEntries(err error) []Entry {
	entries := collectErrorEntries(err)
	out := make([]Entry, len(entries))
	for i, e := range entries {
		out[i] = Entry{Message: e.message, Metadata: e.metadata}
	}
	return out
}
