package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/Josecau2/njfinish-sub001/internal/catalog"
	jobmetrics "github.com/Josecau2/njfinish-sub001/internal/jobs"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskTypeTemplateSave persists a custom modification as a reusable template.
	TaskTypeTemplateSave = "template:save"
)

// TemplateSavePayload describes the modification to save as a template.
type TemplateSavePayload struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// NewTemplateSaveTask constructs an Asynq task.
func NewTemplateSaveTask(payload TemplateSavePayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeTemplateSave, data), nil
}

// NewTemplateSaveHandler returns the handler processing TaskTypeTemplateSave.
// A duplicate template counts as success so retries stay idempotent.
func NewTemplateSaveHandler(service *catalog.Service, logger *slog.Logger, metrics *jobmetrics.Metrics) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		tracker := metrics.Track(TaskTypeTemplateSave)
		var payload TemplateSavePayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return tracker.End(asynq.SkipRetry)
		}
		if _, err := service.CreateTemplate(ctx, payload.Name, payload.Price); err != nil {
			if errors.Is(err, catalog.ErrDuplicateTemplate) {
				logger.Info("template already exists", slog.String("name", payload.Name))
				return tracker.End(nil)
			}
			return tracker.End(err)
		}
		logger.Info("template saved", slog.String("name", payload.Name))
		return tracker.End(nil)
	}
}
