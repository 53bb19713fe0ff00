package scheduler

import (
	"encoding/json"

	"outreach_backend/internal/progression/transport"

	"github.com/hibiken/asynq"
)

const TaskProgressionOutboundSent = "progression.outbound_sent"

const TaskProgressionBooked = "progression.booked"

func NewOutboundSentTask(evt transport.OutboundSentEvent) (*asynq.Task, error) {
	data, err := json.Marshal(evt)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskProgressionOutboundSent, data), nil
}

func ParseOutboundSentPayload(task *asynq.Task) (transport.OutboundSentEvent, error) {
	var evt transport.OutboundSentEvent
	if err := json.Unmarshal(task.Payload(), &evt); err != nil {
		return transport.OutboundSentEvent{}, err
	}
	return evt, nil
}

func NewBookedTask(evt transport.BookedEvent) (*asynq.Task, error) {
	data, err := json.Marshal(evt)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskProgressionBooked, data), nil
}

func ParseBookedPayload(task *asynq.Task) (transport.BookedEvent, error) {
	var evt transport.BookedEvent
	if err := json.Unmarshal(task.Payload(), &evt); err != nil {
		return transport.BookedEvent{}, err
	}
	return evt, nil
}
