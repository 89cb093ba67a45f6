package service

import (
	"errors"
	"fmt"
)

// Kind classifies an identification failure.
type Kind int

const (
	KindProcessing Kind = iota
	KindNotAPlant
	KindUnidentifiable
)

func (k Kind) String() string {
	switch k {
	case KindNotAPlant:
		return "not_a_plant"
	case KindUnidentifiable:
		return "unidentifiable"
	default:
		return "processing"
	}
}

// User-facing messages, shown verbatim by clients.
const (
	msgNotAPlant      = "No plant detected in the image. Please upload a clear image of a plant."
	msgUnidentifiable = "Unable to identify the plant. Please try again with a clearer image."
	msgProcessing     = "Failed to process the image. Please try again."
)

// IdentifyError is the only error type Identify returns.
type IdentifyError struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *IdentifyError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *IdentifyError) Unwrap() error { return e.Err }

// Is matches on Kind so callers can use errors.Is with the sentinels below.
func (e *IdentifyError) Is(target error) bool {
	t, ok := target.(*IdentifyError)
	return ok && t.Err == nil && t.Kind == e.Kind
}

var (
	ErrNotAPlant        = &IdentifyError{Kind: KindNotAPlant, Message: msgNotAPlant}
	ErrUnidentifiable   = &IdentifyError{Kind: KindUnidentifiable, Message: msgUnidentifiable}
	ErrProcessingFailed = &IdentifyError{Kind: KindProcessing, Message: msgProcessing}
)

// asIdentifyError returns err unchanged if it already is an IdentifyError,
// otherwise wraps it as a processing failure.
func asIdentifyError(err error) error {
	var ie *IdentifyError
	if errors.As(err, &ie) {
		return err
	}
	return &IdentifyError{Kind: KindProcessing, Message: msgProcessing, Err: err}
}
