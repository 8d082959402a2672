package upgrade

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
)

// v1ToV2 rebuilds the camera table with a uuid column, assigning each
// existing camera a fresh random identifier. Row ids renumber when rows are
// deleted and re-added; the uuid gives each camera a stable identity that
// exported recordings and API clients can hold across reconfiguration.
//
// recording references camera, and renaming a parent table rewrites the
// foreign key clauses of its children, so recording is rebuilt in the same
// transaction (its columns unchanged) to keep its stored definition
// pointing at camera.
func v1ToV2(ctx context.Context, cfg *Config, tx *sql.Tx) error {
	if _, err := tx.ExecContext(ctx, `
		ALTER TABLE recording RENAME TO old_recording;
		ALTER TABLE camera RENAME TO old_camera;

		CREATE TABLE camera (
		  id INTEGER PRIMARY KEY,
		  uuid BLOB UNIQUE NOT NULL,
		  name TEXT UNIQUE NOT NULL,
		  host TEXT,
		  username TEXT,
		  password TEXT
		);

		CREATE TABLE recording (
		  id INTEGER PRIMARY KEY,
		  camera_id INTEGER NOT NULL REFERENCES camera (id),
		  start_time_90k INTEGER NOT NULL,
		  duration_90k INTEGER NOT NULL,
		  sample_file_path TEXT UNIQUE NOT NULL,
		  sample_file_bytes INTEGER NOT NULL,
		  video_samples INTEGER NOT NULL
		);
	`); err != nil {
		return fmt.Errorf("rebuild camera and recording tables: %w", err)
	}

	type oldCamera struct {
		id                       int64
		name                     string
		host, username, password sql.NullString
	}

	rows, err := tx.QueryContext(ctx,
		"SELECT id, name, host, username, password FROM old_camera")
	if err != nil {
		return fmt.Errorf("read cameras: %w", err)
	}
	var cameras []oldCamera
	for rows.Next() {
		var c oldCamera
		if err := rows.Scan(&c.id, &c.name, &c.host, &c.username, &c.password); err != nil {
			rows.Close()
			return fmt.Errorf("scan camera: %w", err)
		}
		cameras = append(cameras, c)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("read cameras: %w", err)
	}

	for _, c := range cameras {
		id := uuid.New()
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO camera (id, uuid, name, host, username, password)
			VALUES (?, ?, ?, ?, ?, ?)`,
			c.id, id[:], c.name, c.host, c.username, c.password,
		); err != nil {
			return fmt.Errorf("copy camera %d: %w", c.id, err)
		}
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO recording (id, camera_id, start_time_90k, duration_90k,
		                       sample_file_path, sample_file_bytes, video_samples)
		SELECT id, camera_id, start_time_90k, duration_90k,
		       sample_file_path, sample_file_bytes, video_samples
		FROM old_recording;

		DROP TABLE old_recording;
		DROP TABLE old_camera;
		CREATE INDEX recording_camera_start ON recording (camera_id, start_time_90k);
	`); err != nil {
		return fmt.Errorf("finish camera rebuild: %w", err)
	}
	return nil
}
