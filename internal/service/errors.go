// errors.go - ошибки бизнес-логики сервисного слоя.
package service

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound - ресурс не найден.
	ErrNotFound = errors.New("ресурс не найден")
	// ErrValidation - ошибка валидации входных данных.
	ErrValidation = errors.New("ошибка валидации")
	// ErrInvalidDirection - направление не incoming и не outgoing.
	ErrInvalidDirection = fmt.Errorf("%w: некорректное направление, допустимые значения: incoming, outgoing", ErrValidation)
	// ErrInvalidBatchID - идентификатор батча не является целым числом.
	ErrInvalidBatchID = fmt.Errorf("%w: некорректный идентификатор батча, ожидается целое число", ErrValidation)
)
