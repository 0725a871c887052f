package domain

import "fmt"

// TrainingStatus is the lifecycle state of a TrainingJob.
type TrainingStatus string

const (
	// This job's worker is training.
	TrainingRunning TrainingStatus = "running"

	// This job has finished successfully and produced a fitting.
	TrainingCompleted TrainingStatus = "completed"

	// This job's engine reported an error.
	TrainingFailed TrainingStatus = "failed"

	// This job was stopped by the user before finishing.
	TrainingCancelled TrainingStatus = "cancelled"
)

func (ts TrainingStatus) String() string {
	return string(ts)
}

// terminal states free the user's training slot.
func (ts TrainingStatus) IsTerminal() bool {
	switch ts {
	case TrainingCompleted, TrainingFailed, TrainingCancelled:
		return true
	default:
		return false
	}
}

func AsTrainingStatus(status string) (TrainingStatus, error) {
	switch status {
	case string(TrainingRunning):
		return TrainingRunning, nil
	case string(TrainingCompleted):
		return TrainingCompleted, nil
	case string(TrainingFailed):
		return TrainingFailed, nil
	case string(TrainingCancelled):
		return TrainingCancelled, nil
	default:
		return "", fmt.Errorf("'%s' is not TrainingStatus", status)
	}
}

// TrainingJob is one in-flight training run.
//
// At most one job exists per user. The job is mutated only by its owning
// worker (progress callbacks) and by Stop (cancellation signal), and is
// removed from the active-job table when it reaches a terminal status.
type TrainingJob struct {
	UserId string

	// identifier of the resulting fitting. Empty while running a fresh
	// training; set when the job was started by Continue, or on completion.
	FittingId string

	EpochsRequested int

	// monotonically non-decreasing.
	EpochsCompleted int

	Status TrainingStatus
}
