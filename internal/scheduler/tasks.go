package scheduler

import (
	"encoding/json"
	"fmt"

	"steam_search_backend/platform/validator"

	"github.com/hibiken/asynq"
)

// TaskPrefetchDetails warms the details cache for one app.
const TaskPrefetchDetails = "steam.details.prefetch"

type PrefetchDetailsPayload struct {
	AppID string `json:"appId"`
	Query string `json:"query,omitempty"`
}

func NewPrefetchDetailsTask(payload PrefetchDetailsPayload) (*asynq.Task, error) {
	if !validator.IsAppID(payload.AppID) {
		return nil, fmt.Errorf("prefetch task: invalid app id %q", payload.AppID)
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskPrefetchDetails, data), nil
}

func ParsePrefetchDetailsPayload(task *asynq.Task) (PrefetchDetailsPayload, error) {
	var payload PrefetchDetailsPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return PrefetchDetailsPayload{}, err
	}
	if !validator.IsAppID(payload.AppID) {
		return PrefetchDetailsPayload{}, fmt.Errorf("prefetch task: invalid app id %q", payload.AppID)
	}
	return payload, nil
}
