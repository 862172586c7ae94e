package workflow

import (
	"context"
	"fmt"
	"strings"

	"downfileorg/internal/logging"
	"downfileorg/internal/queue"
)

func (m *Manager) handleStageFailure(ctx context.Context, stageName string, item *queue.Item, stageErr error) {
	logger := logging.WithContext(ctx, m.runLogger())

	message := m.classifyStageFailure(stageName, stageErr)
	item.SetFailed(message)

	logger.Error("stage failed",
		logging.String("stage", stageName),
		logging.String("error_message", message),
		logging.String(logging.FieldEventType, "stage_failure"),
		logging.Error(stageErr),
	)

	// Failures are terminal results too; persist them even when the
	// surrounding run is already shutting down.
	if err := m.store.Update(context.WithoutCancel(ctx), item); err != nil {
		logger.Error("failed to persist stage failure", logging.Error(err))
	}

	m.setLastItem(item)
}

func (m *Manager) classifyStageFailure(stageName string, stageErr error) string {
	if stageErr == nil {
		return fmt.Sprintf("%s failed without error detail", stageName)
	}
	message := strings.TrimSpace(stageErr.Error())
	if message == "" {
		message = fmt.Sprintf("%s failed", stageName)
	}
	return message
}
