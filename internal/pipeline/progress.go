package pipeline

import (
	"context"
	"errors"
)

// OutcomeStatus is the terminal status of one ingestion request.
type OutcomeStatus string

const (
	// OutcomeCreated means a new record was fully created (possibly
	// with partial translations or no images).
	OutcomeCreated OutcomeStatus = "created"
	// OutcomeDuplicate means an existing record already covers the
	// requested name. This is a legitimate terminal outcome, not an
	// error.
	OutcomeDuplicate OutcomeStatus = "duplicate"
	// OutcomeFailed means the request failed and any partial writes
	// were compensated.
	OutcomeFailed OutcomeStatus = "failed"
	// OutcomeCancelled means the shared cancellation signal fired.
	// Never conflated with OutcomeFailed.
	OutcomeCancelled OutcomeStatus = "cancelled"
)

// Outcome is the structured per-request result surfaced to callers.
type Outcome struct {
	Status  OutcomeStatus
	PlantID string
	Message string
}

// Hooks carries optional caller-supplied progress callbacks. Any field
// may be nil.
type Hooks struct {
	StageStart       func(stage string)
	StageDone        func(stage string, err error)
	SectionStart     func(section string)
	SectionDone      func(section string, err error)
	ImageSourceStart func(source string)
	ImageSourceDone  func(source string, found int, err error)
	UploadProgress   func(done, total int)
}

func (h *Hooks) stageStart(stage string) {
	if h != nil && h.StageStart != nil {
		h.StageStart(stage)
	}
}

func (h *Hooks) stageDone(stage string, err error) {
	if h != nil && h.StageDone != nil {
		h.StageDone(stage, err)
	}
}

func (h *Hooks) sectionStart(section string) {
	if h != nil && h.SectionStart != nil {
		h.SectionStart(section)
	}
}

func (h *Hooks) sectionDone(section string, err error) {
	if h != nil && h.SectionDone != nil {
		h.SectionDone(section, err)
	}
}

func (h *Hooks) imageSourceStart(source string) {
	if h != nil && h.ImageSourceStart != nil {
		h.ImageSourceStart(source)
	}
}

func (h *Hooks) imageSourceDone(source string, found int, err error) {
	if h != nil && h.ImageSourceDone != nil {
		h.ImageSourceDone(source, found, err)
	}
}

func (h *Hooks) uploadProgress(done, total int) {
	if h != nil && h.UploadProgress != nil {
		h.UploadProgress(done, total)
	}
}

// isCancellation reports whether err stems from the shared cancellation
// signal rather than a genuine failure. The two are kept visibly
// distinct all the way up to the batch runner.
func isCancellation(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
