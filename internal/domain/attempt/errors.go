package attempt

import (
	"errors"
	"fmt"

	"github.com/paesprep/backend/internal/domain/exam"
)

var (
	ErrInvalidQuestion  = errors.New("question does not belong to this exam")
	ErrInvalidOption    = fmt.Errorf("%w: selected value is not an option of this question", exam.ErrInvalidInput)
	ErrAlreadyFinalized = errors.New("attempt is already finalized")
	ErrNotFinished      = errors.New("attempt is still in progress")
	ErrExamInactive     = fmt.Errorf("%w: exam is not active", exam.ErrInvalidInput)
)
