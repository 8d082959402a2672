package domain

import (
	"context"

	"github.com/google/uuid"
)

// Camera represents a configured video source.
type Camera struct {
	ID       int64
	UUID     uuid.UUID
	Name     string
	Host     string
	Username string
	Password string
}

// CameraRepository defines persistence operations for cameras.
type CameraRepository interface {
	Create(ctx context.Context, camera *Camera) error
	GetByID(ctx context.Context, id int64) (*Camera, error)
	GetByUUID(ctx context.Context, id uuid.UUID) (*Camera, error)
	List(ctx context.Context) ([]Camera, error)
}
