// internal/domain/metadata/repository.go
package metadata

import (
	"context"
	"errors"
	"time"
)

// APIStatusID is the fixed key of the cooldown marker row.
const APIStatusID = "api_status"

var ErrMarkerNotFound = errors.New("metadata marker not found")

// Repository stores the singleton cooldown marker.
type Repository interface {
	// LastAPICheck returns ErrMarkerNotFound if the provider was never polled.
	LastAPICheck(ctx context.Context) (time.Time, error)
	SetLastAPICheck(ctx context.Context, at time.Time) error
}
