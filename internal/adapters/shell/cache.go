package shell

import (
	"maps"
	"slices"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/rewatch/internal/core/domain"
)

// Cache is the artifact a shell bundle hands to the next build. It records
// what the last successful command run was computed from.
type Cache struct {
	// Fingerprint covers every module, the output path and the environment.
	Fingerprint uint64
	// Files maps each input file to the hash of its content.
	Files map[string]uint64
}

// newCache fingerprints modules and the options that influence the command.
func newCache(modules []domain.Module, opts domain.Options) *Cache {
	c := &Cache{Files: make(map[string]uint64, len(modules))}

	d := xxhash.New()
	for _, m := range modules {
		h := xxhash.Sum64String(m.Code)
		if !m.Synthetic() {
			c.Files[m.ID] = h
		}
		writeField(d, m.ID)
		writeField(d, m.Code)
	}

	writeField(d, opts.WorkingDir)
	writeField(d, opts.Output)
	for _, k := range slices.Sorted(maps.Keys(opts.Environment)) {
		writeField(d, k)
		writeField(d, opts.Environment[k])
	}

	c.Fingerprint = d.Sum64()
	return c
}

// Matches reports whether the cache was computed from the same inputs as other.
func (c *Cache) Matches(other *Cache) bool {
	return c != nil && other != nil && c.Fingerprint == other.Fingerprint
}

// Changed returns the files whose content differs from prev, sorted.
// Files that only exist in prev are reported too.
func (c *Cache) Changed(prev *Cache) []string {
	if prev == nil {
		return slices.Sorted(maps.Keys(c.Files))
	}
	var changed []string
	for path, h := range c.Files {
		if old, ok := prev.Files[path]; !ok || old != h {
			changed = append(changed, path)
		}
	}
	for path := range prev.Files {
		if _, ok := c.Files[path]; !ok {
			changed = append(changed, path)
		}
	}
	slices.Sort(changed)
	return changed
}

func writeField(d *xxhash.Digest, s string) {
	_, _ = d.WriteString(s)
	_, _ = d.Write([]byte{0})
}
