package annotation

import (
	"encoding/json"
	"time"

	"github.com/trezcool/kosoa/core"
)

// Kind distinguishes the leaf resources attached to a correction page.
// Annotations carry structured (JSON) drawing/markup content; comments
// carry free text. The AI kinds mark machine-generated counterparts.
type Kind string

const (
	KindAnnotation   Kind = "annotation"
	KindComment      Kind = "comment"
	KindAIAnnotation Kind = "ai_annotation"
	KindAIComment    Kind = "ai_comment"
)

func (k Kind) IsAnnotation() bool { return k == KindAnnotation || k == KindAIAnnotation }
func (k Kind) IsAI() bool         { return k == KindAIAnnotation || k == KindAIComment }

// Annotation is a leaf resource attached to a Correction and a page of the
// underlying submission. It carries no role or ownership fields of its own:
// access rules are inherited from the owning Correction.
type Annotation struct {
	ID           int       `json:"-"`
	UID          string    `json:"id"` // public logical ID
	CorrectionID int       `json:"-"`
	Kind         Kind      `json:"kind"`
	Page         int       `json:"page"`
	Body         string    `json:"body"` // JSON for annotation kinds, plain text for comments
	CreatedBy    int       `json:"-"`
	CreatedAt    time.Time `json:"created_at"` // UTC
	UpdatedAt    time.Time `json:"updated_at"` // UTC
}

// NewAnnotation contains information needed to create a new Annotation.
type NewAnnotation struct {
	Kind Kind   `json:"kind" validate:"required,oneof=annotation comment ai_annotation ai_comment"`
	Page int    `json:"page" validate:"required,min=1"`
	Body string `json:"body" validate:"required"`
}

func (na *NewAnnotation) Validate() error {
	if err := core.Validate.Struct(na); err != nil {
		return err
	}
	return validateBody(na.Kind, na.Body)
}

// UpdateAnnotation defines what may be modified on an existing Annotation.
type UpdateAnnotation struct {
	Page int    `json:"page" validate:"omitempty,min=1"`
	Body string `json:"body"`
}

func (ua *UpdateAnnotation) Validate(orig Annotation) error {
	if err := core.Validate.Struct(ua); err != nil {
		return err
	}
	if ua.Body != "" {
		return validateBody(orig.Kind, ua.Body)
	}
	return nil
}

// validateBody requires a valid JSON document for annotation kinds.
func validateBody(kind Kind, body string) error {
	if !kind.IsAnnotation() {
		return nil
	}
	if !json.Valid([]byte(body)) {
		return core.NewValidationError(nil, core.FieldError{Field: "body", Error: "must be a valid JSON document"})
	}
	return nil
}
