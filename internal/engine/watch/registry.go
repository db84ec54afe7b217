package watch

import (
	"errors"
	"sync"

	"go.trai.ch/rewatch/internal/core/domain"
	"go.trai.ch/rewatch/internal/core/ports"
)

// Registry owns the active file watchers, keyed by module ID.
//
// Entries are only removed when their file disappears from disk. A module that
// drops out of the build graph keeps its watcher, so a file that comes back
// into the graph later never misses a change made while it was out.
type Registry struct {
	mu       sync.Mutex
	watchers map[string]*FileWatcher
	notifier ports.Notifier
	logger   ports.Logger
	onChange func(id string)
}

// NewRegistry creates an empty registry whose watchers report changes to onChange.
func NewRegistry(notifier ports.Notifier, logger ports.Logger, onChange func(id string)) *Registry {
	return &Registry{
		watchers: make(map[string]*FileWatcher),
		notifier: notifier,
		logger:   logger,
		onChange: onChange,
	}
}

// Reconcile attaches a watcher to every real module that has none yet.
//
// Files that do not exist are skipped and retried on the next call. Any other
// watch failure is returned and leaves the remaining modules unwatched.
func (r *Registry) Reconcile(modules []domain.Module) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, module := range modules {
		if module.Synthetic() {
			continue
		}
		if _, ok := r.watchers[module.ID]; ok {
			continue
		}

		w, err := NewFileWatcher(r.notifier, r.logger, module, r.onChange, r.OnDispose)
		if err != nil {
			if errors.Is(err, domain.ErrWatchTargetMissing) {
				continue
			}
			return err
		}
		r.watchers[module.ID] = w
	}

	return nil
}

// OnDispose forgets the watcher of id. Watchers call it when their file is removed.
func (r *Registry) OnDispose(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.watchers, id)
}

// Has reports whether id is currently watched.
func (r *Registry) Has(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.watchers[id]
	return ok
}

// Len returns the number of active watchers.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.watchers)
}

// Close stops every watcher and empties the registry.
func (r *Registry) Close() error {
	r.mu.Lock()
	watchers := r.watchers
	r.watchers = make(map[string]*FileWatcher)
	r.mu.Unlock()

	var errs error
	for _, w := range watchers {
		errs = errors.Join(errs, w.Close())
	}
	return errs
}
