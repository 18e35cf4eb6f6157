package workflow

import (
	"errors"
	"fmt"
)

// ValidationError is a client-side check that failed before any network call.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

type PhotoLimitError struct {
	Max int
}

func (e *PhotoLimitError) Error() string {
	return fmt.Sprintf("Можно добавить не больше %d фото", e.Max)
}

// BatchError reports a batch that stopped at Index. CreatedIDs already exist
// in the backend and are not rolled back.
type BatchError struct {
	CreatedIDs []string
	Index      int
	Date       string
	Total      int
	Err        error
}

func (e *BatchError) Error() string {
	return fmt.Sprintf("Не удалось создать смену на %s (%d из %d): %v. Уже создано смен: %d",
		e.Date, e.Index+1, e.Total, e.Err, len(e.CreatedIDs))
}

func (e *BatchError) Unwrap() error {
	return e.Err
}
