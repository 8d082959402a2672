package domain

import "context"

// Recording represents one stored segment of video from a camera.
// Times and durations are in 90 kHz units, the native clock of the
// video streams the recorder ingests.
type Recording struct {
	ID              int64
	CameraID        int64
	StartTime90k    int64
	Duration90k     int64
	SampleFilePath  string
	SampleFileBytes int64
	VideoSamples    int64
}

// RecordingRepository defines persistence operations for recordings.
type RecordingRepository interface {
	Create(ctx context.Context, recording *Recording) error
	GetByID(ctx context.Context, id int64) (*Recording, error)
	ListByCamera(ctx context.Context, cameraID int64) ([]Recording, error)
}
