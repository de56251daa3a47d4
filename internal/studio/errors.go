package studio

import (
	"context"
	"errors"
	"fmt"

	"prompt-studio/internal/gemini"
	"prompt-studio/internal/prompt"
	"prompt-studio/internal/sections"
)

var (
	ErrInFlight             = errors.New("action already in progress")
	ErrGeneration           = errors.New("generation failed")
	ErrNotFound             = errors.New("result not found")
	ErrNotStoryboard        = errors.New("result has no storyboard panels")
	ErrUnsupportedImageType = errors.New("unsupported image type")
	ErrImageTooLarge        = errors.New("image too large")
)

// ImageTooLargeError carries the limit an upload exceeded. Size is zero when
// the upload was cut off before its size was known.
type ImageTooLargeError struct {
	Size  int64
	Limit int64
}

func (e *ImageTooLargeError) Error() string {
	if e.Size <= 0 {
		return fmt.Sprintf("image too large: limit %d bytes", e.Limit)
	}
	return fmt.Sprintf("image too large: %d bytes, limit %d", e.Size, e.Limit)
}

func (e *ImageTooLargeError) Unwrap() error { return ErrImageTooLarge }

type ErrorKind int

const (
	KindInternal ErrorKind = iota
	KindValidation
	KindConflict
	KindNotFound
	KindUpstream
	KindCanceled
)

// Kind sorts err into the classes the front ends map to status codes.
func Kind(err error) ErrorKind {
	switch {
	case err == nil:
		return KindInternal
	case errors.Is(err, ErrInFlight):
		return KindConflict
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case isValidation(err):
		return KindValidation
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return KindCanceled
	case errors.Is(err, ErrGeneration):
		return KindUpstream
	}
	return KindInternal
}

func isValidation(err error) bool {
	for _, target := range []error{
		ErrUnsupportedImageType,
		ErrImageTooLarge,
		ErrNotStoryboard,
		prompt.ErrEmptySubject,
		prompt.ErrEmptyFeedback,
		prompt.ErrUnknownFramework,
		prompt.ErrUnknownCameraShot,
		prompt.ErrUnknownAudioMood,
		prompt.ErrInvalidAspectRatio,
		prompt.ErrUnknownOutputType,
		prompt.ErrUnknownField,
		gemini.ErrEmptyPrompt,
		sections.ErrUnknownFormat,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// UserMessage is the text shown to an end user for err. Details stay in logs.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInFlight):
		return "That request is already running. Please wait for it to finish."
	case errors.Is(err, ErrUnsupportedImageType):
		return "Invalid file type. Please upload an image."
	case errors.Is(err, ErrImageTooLarge):
		var tooLarge *ImageTooLargeError
		if errors.As(err, &tooLarge) && tooLarge.Limit > 0 {
			return "File is too large. Please upload an image under " + HumanSize(tooLarge.Limit) + "."
		}
		return "File is too large. Please upload a smaller image."
	case errors.Is(err, prompt.ErrEmptySubject), errors.Is(err, gemini.ErrEmptyPrompt):
		return "Please describe a subject first."
	case errors.Is(err, prompt.ErrEmptyFeedback):
		return "Please say what should change."
	case errors.Is(err, ErrNotFound):
		return "That prompt is no longer available. Generate a new one."
	case errors.Is(err, ErrNotStoryboard):
		return "Storyboard rendering needs a result from the storyboard framework."
	case isValidation(err):
		return "Invalid request: " + err.Error()
	case errors.Is(err, context.DeadlineExceeded):
		return "The request timed out. Please try again."
	case errors.Is(err, context.Canceled):
		return "The request was cancelled."
	}
	return "An error occurred while generating the prompt. Please try again."
}

// HumanSize renders a byte count the way limits are shown to users: "5MB",
// "512KB" or "300 bytes".
func HumanSize(n int64) string {
	const (
		kb = 1024
		mb = 1024 * kb
	)
	switch {
	case n >= mb && n%mb == 0:
		return fmt.Sprintf("%dMB", n/mb)
	case n >= mb:
		return fmt.Sprintf("%.1fMB", float64(n)/mb)
	case n >= kb && n%kb == 0:
		return fmt.Sprintf("%dKB", n/kb)
	case n >= kb:
		return fmt.Sprintf("%.1fKB", float64(n)/kb)
	}
	return fmt.Sprintf("%d bytes", n)
}
