package jobs

import (
	"context"
	"log/slog"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskRolesRefresh rebuilds the in-memory role matrix snapshot.
	TaskRolesRefresh = "roles:refresh"
	// TaskSessionCleanup removes expired session rows.
	TaskSessionCleanup = "sessions:cleanup"
)

// RolesRefresher rebuilds the permission snapshot from its backing store.
type RolesRefresher interface {
	Refresh(ctx context.Context) error
}

// SessionPruner deletes expired session records.
type SessionPruner interface {
	PruneSessions(ctx context.Context) (int64, error)
}

// NewRolesRefreshTask constructs the periodic role matrix refresh task.
func NewRolesRefreshTask() *asynq.Task {
	return asynq.NewTask(TaskRolesRefresh, nil)
}

// NewSessionCleanupTask constructs the session cleanup task.
func NewSessionCleanupTask() *asynq.Task {
	return asynq.NewTask(TaskSessionCleanup, nil)
}

// HandleRolesRefresh returns an asynq handler bound to the given refresher.
func HandleRolesRefresh(refresher RolesRefresher, logger *slog.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		if err := refresher.Refresh(ctx); err != nil {
			logger.Error("roles refresh job", slog.Any("error", err))
			return err
		}
		logger.Info("role matrix refreshed")
		return nil
	}
}

// HandleSessionCleanup returns an asynq handler bound to the given pruner.
func HandleSessionCleanup(pruner SessionPruner, logger *slog.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		removed, err := pruner.PruneSessions(ctx)
		if err != nil {
			logger.Error("session cleanup job", slog.Any("error", err))
			return err
		}
		logger.Info("sessions pruned", slog.Int64("removed", removed))
		return nil
	}
}
