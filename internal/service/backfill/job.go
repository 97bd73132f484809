package backfill

import (
	"context"
	"fmt"

	"TaPulse/pkg/queue"
)

// Job consumes backfill messages from the queue and forwards them to the
// external backfill service.
type Job struct {
	client *Client
}

func NewJob(client *Client) *Job {
	return &Job{client: client}
}

func (j *Job) Name() string { return "backfill" }

func (j *Job) Type() string { return MessageType }

func (j *Job) Handle(ctx context.Context, payload interface{}) error {
	p, err := queue.ParsePayload[JobPayload](payload)
	if err != nil {
		return fmt.Errorf("parse backfill payload: %w", err)
	}
	return j.client.Run(ctx, p)
}
