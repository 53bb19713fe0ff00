// Package transport defines the request/response DTOs for the question
// registry module.
package transport

import (
	"time"

	"github.com/google/uuid"
)

// CreateQuestionRequest is the request body for adding a registry question.
type CreateQuestionRequest struct {
	Text     string `json:"text" validate:"required,min=1,max=500"`
	Required bool   `json:"required"`
}

// UpdateQuestionRequest edits a question's text or required flag. The id is
// stable once referenced by a stage; only the text may change freely.
type UpdateQuestionRequest struct {
	Text     string `json:"text" validate:"required,min=1,max=500"`
	Required bool   `json:"required"`
}

// ReorderRequest replaces the registry ordering with the supplied id list.
type ReorderRequest struct {
	QuestionIDs []uuid.UUID `json:"questionIds" validate:"required,min=1"`
}

// QuestionResponse is the API representation of a registry question.
type QuestionResponse struct {
	ID        uuid.UUID `json:"id"`
	Text      string    `json:"text"`
	Required  bool      `json:"required"`
	Position  int       `json:"position"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
