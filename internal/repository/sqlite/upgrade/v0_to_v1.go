package upgrade

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// v0ToV1 rebuilds the recording table with a sample_file_bytes column,
// populated from the size of each recording's sample file on disk. Version
// 0 deployments tracked disk usage by walking the sample file directory on
// every query; storing the size makes usage accounting a pure SQL sum.
func v0ToV1(ctx context.Context, cfg *Config, tx *sql.Tx) error {
	if _, err := tx.ExecContext(ctx, `
		ALTER TABLE recording RENAME TO old_recording;

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
		return fmt.Errorf("rebuild recording table: %w", err)
	}

	type oldRecording struct {
		id, cameraID, startTime90k, duration90k, videoSamples int64
		sampleFilePath                                        string
	}

	rows, err := tx.QueryContext(ctx, `
		SELECT id, camera_id, start_time_90k, duration_90k, sample_file_path, video_samples
		FROM old_recording`)
	if err != nil {
		return fmt.Errorf("read recordings: %w", err)
	}
	var recordings []oldRecording
	for rows.Next() {
		var r oldRecording
		if err := rows.Scan(&r.id, &r.cameraID, &r.startTime90k, &r.duration90k,
			&r.sampleFilePath, &r.videoSamples); err != nil {
			rows.Close()
			return fmt.Errorf("scan recording: %w", err)
		}
		recordings = append(recordings, r)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("read recordings: %w", err)
	}

	for _, r := range recordings {
		bytes := sampleFileBytes(cfg.SampleFileDir, r.sampleFilePath)
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO recording (id, camera_id, start_time_90k, duration_90k,
			                       sample_file_path, sample_file_bytes, video_samples)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			r.id, r.cameraID, r.startTime90k, r.duration90k,
			r.sampleFilePath, bytes, r.videoSamples,
		); err != nil {
			return fmt.Errorf("copy recording %d: %w", r.id, err)
		}
	}

	if _, err := tx.ExecContext(ctx, `
		DROP TABLE old_recording;
		CREATE INDEX recording_camera_start ON recording (camera_id, start_time_90k);
	`); err != nil {
		return fmt.Errorf("finish recording rebuild: %w", err)
	}
	return nil
}

// sampleFileBytes returns the size of a recording's sample file, or zero
// when the file (or the whole directory) is unavailable. Recordings whose
// files have gone missing stay in the index; the recorder reconciles them
// separately.
func sampleFileBytes(dir, name string) int64 {
	if dir == "" {
		return 0
	}
	info, err := os.Stat(filepath.Join(dir, name))
	if err != nil {
		slog.Warn("sample file not readable, recording size as zero", "file", name, "error", err)
		return 0
	}
	return info.Size()
}
