package ports

//go:generate mockgen -source=notifier.go -destination=mocks/mock_notifier.go -package=mocks

// WatchOp represents the kind of a file notification.
type WatchOp uint8

const (
	// OpChange indicates the file may have new content.
	OpChange WatchOp = iota
	// OpRename indicates the file was renamed or removed.
	OpRename
)

// WatchEvent represents a notification for a watched file.
type WatchEvent struct {
	// Path is the path of the file that changed.
	Path string
	// Operation is the kind of change that occurred.
	Operation WatchOp
}

// Subscription delivers notifications for one file until stopped.
type Subscription interface {
	// Events returns the notification stream. It is closed once the subscription is stopped.
	Events() <-chan WatchEvent
	// Stop ends the subscription and releases its resources. It is safe to call more than once.
	Stop() error
}

// Notifier is the filesystem change-notification primitive.
type Notifier interface {
	// Watch subscribes to notifications for a single file.
	// It returns an error matching domain.ErrWatchTargetMissing when the file does not exist.
	Watch(path string) (Subscription, error)
	// ReadFile returns the current content of the file.
	ReadFile(path string) ([]byte, error)
}
