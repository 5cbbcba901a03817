package service

import (
	"strings"

	"github.com/bigkaa/symds-dashboard/internal/domain/model"
)

// ValidateDirection проверяет направление без учёта регистра.
func ValidateDirection(direction string) (model.Direction, error) {
	dir, ok := model.ParseDirection(strings.TrimSpace(direction))
	if !ok {
		return "", ErrInvalidDirection
	}
	return dir, nil
}
