package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/nightowl-nvr/nightowl/internal/domain"
)

// RecordingRepository implements domain.RecordingRepository using SQLite.
type RecordingRepository struct {
	db *sql.DB
}

func (r *RecordingRepository) Create(ctx context.Context, recording *domain.Recording) error {
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO recording (camera_id, start_time_90k, duration_90k,
		                        sample_file_path, sample_file_bytes, video_samples)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		recording.CameraID, recording.StartTime90k, recording.Duration90k,
		recording.SampleFilePath, recording.SampleFileBytes, recording.VideoSamples,
	)
	if err != nil {
		return fmt.Errorf("insert recording: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}
	recording.ID = id
	return nil
}

func (r *RecordingRepository) GetByID(ctx context.Context, id int64) (*domain.Recording, error) {
	recording := &domain.Recording{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, camera_id, start_time_90k, duration_90k,
		        sample_file_path, sample_file_bytes, video_samples
		 FROM recording WHERE id = ?`, id,
	).Scan(
		&recording.ID, &recording.CameraID, &recording.StartTime90k, &recording.Duration90k,
		&recording.SampleFilePath, &recording.SampleFileBytes, &recording.VideoSamples,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get recording: %w", err)
	}
	return recording, nil
}

func (r *RecordingRepository) ListByCamera(ctx context.Context, cameraID int64) ([]domain.Recording, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, camera_id, start_time_90k, duration_90k,
		        sample_file_path, sample_file_bytes, video_samples
		 FROM recording WHERE camera_id = ? ORDER BY start_time_90k`, cameraID)
	if err != nil {
		return nil, fmt.Errorf("list recordings: %w", err)
	}
	defer rows.Close()

	var recordings []domain.Recording
	for rows.Next() {
		var recording domain.Recording
		if err := rows.Scan(
			&recording.ID, &recording.CameraID, &recording.StartTime90k, &recording.Duration90k,
			&recording.SampleFilePath, &recording.SampleFileBytes, &recording.VideoSamples,
		); err != nil {
			return nil, fmt.Errorf("scan recording: %w", err)
		}
		recordings = append(recordings, recording)
	}
	return recordings, rows.Err()
}
