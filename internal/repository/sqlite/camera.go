package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/nightowl-nvr/nightowl/internal/domain"
)

// CameraRepository implements domain.CameraRepository using SQLite.
type CameraRepository struct {
	db *sql.DB
}

func (r *CameraRepository) Create(ctx context.Context, camera *domain.Camera) error {
	if camera.UUID == uuid.Nil {
		camera.UUID = uuid.New()
	}
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO camera (uuid, name, host, username, password)
		 VALUES (?, ?, ?, ?, ?)`,
		camera.UUID[:], camera.Name, camera.Host, camera.Username, camera.Password,
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return domain.ErrDuplicateName
		}
		return fmt.Errorf("insert camera: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}
	camera.ID = id
	return nil
}

func (r *CameraRepository) GetByID(ctx context.Context, id int64) (*domain.Camera, error) {
	return r.get(ctx, "SELECT id, uuid, name, host, username, password FROM camera WHERE id = ?", id)
}

func (r *CameraRepository) GetByUUID(ctx context.Context, id uuid.UUID) (*domain.Camera, error) {
	return r.get(ctx, "SELECT id, uuid, name, host, username, password FROM camera WHERE uuid = ?", id[:])
}

func (r *CameraRepository) get(ctx context.Context, query string, arg any) (*domain.Camera, error) {
	camera := &domain.Camera{}
	var rawUUID []byte
	var host, username, password sql.NullString
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&camera.ID, &rawUUID, &camera.Name, &host, &username, &password,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get camera: %w", err)
	}
	camera.Host, camera.Username, camera.Password = host.String, username.String, password.String
	camera.UUID, err = uuid.FromBytes(rawUUID)
	if err != nil {
		return nil, fmt.Errorf("parse camera uuid: %w", err)
	}
	return camera, nil
}

func (r *CameraRepository) List(ctx context.Context) ([]domain.Camera, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, uuid, name, host, username, password FROM camera ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("list cameras: %w", err)
	}
	defer rows.Close()

	var cameras []domain.Camera
	for rows.Next() {
		var camera domain.Camera
		var rawUUID []byte
		var host, username, password sql.NullString
		if err := rows.Scan(&camera.ID, &rawUUID, &camera.Name,
			&host, &username, &password); err != nil {
			return nil, fmt.Errorf("scan camera: %w", err)
		}
		camera.Host, camera.Username, camera.Password = host.String, username.String, password.String
		camera.UUID, err = uuid.FromBytes(rawUUID)
		if err != nil {
			return nil, fmt.Errorf("parse camera uuid: %w", err)
		}
		cameras = append(cameras, camera)
	}
	return cameras, rows.Err()
}
