package ports

import "context"

// VersionSource reports the latest published version of the tool.
//
//go:generate mockgen -source=version.go -destination=mocks/mock_version.go -package=mocks
type VersionSource interface {
	Latest(ctx context.Context) (string, error)
}
