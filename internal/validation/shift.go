package validation

import (
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/iudanet/shiftkeeper/internal/models"
)

// MaxNotesLen ограничение на длину заметок смены (в символах)
const MaxNotesLen = 4000

// ErrInvalidShift is returned (wrapped) for any shift that fails validation.
var ErrInvalidShift = errors.New("invalid shift")

// ValidateDate checks that date is a YYYY-MM-DD calendar date.
func ValidateDate(date string) error {
	if date == "" {
		return fmt.Errorf("%w: date is required", ErrInvalidShift)
	}
	if _, err := time.Parse(models.DateLayout, date); err != nil {
		return fmt.Errorf("%w: date must be in YYYY-MM-DD format", ErrInvalidShift)
	}
	return nil
}

// ValidateShift проверяет запись перед отправкой на сервер.
// Ошибки валидации не повторяются и не ставятся в очередь.
func ValidateShift(s *models.Shift) error {
	if s == nil {
		return fmt.Errorf("%w: shift is nil", ErrInvalidShift)
	}
	if s.ID == "" {
		return fmt.Errorf("%w: id is required", ErrInvalidShift)
	}
	if s.OwnerID == "" {
		return fmt.Errorf("%w: owner_id is required", ErrInvalidShift)
	}
	if err := ValidateDate(s.Date); err != nil {
		return err
	}
	if !s.Kind.IsValid() {
		return fmt.Errorf("%w: kind must be one of A, B, C (got %q)", ErrInvalidShift, s.Kind)
	}
	if utf8.RuneCountInString(s.Notes) > MaxNotesLen {
		return fmt.Errorf("%w: notes must not exceed %d characters", ErrInvalidShift, MaxNotesLen)
	}
	return nil
}
