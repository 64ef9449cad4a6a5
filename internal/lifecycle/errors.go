// roof-mri-backend/internal/lifecycle/errors.go
package lifecycle

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Ошибки переходов. Хэндлеры различают их, чтобы клиент видел
// "уже подписано", а не безликую ошибку.
var (
	// ErrAlreadySigned — попытка подписать уже подписанное предложение.
	ErrAlreadySigned = errors.New("proposal already signed")
	// ErrAlreadyPaid — платежная сессия для уже оплаченного предложения.
	ErrAlreadyPaid = errors.New("proposal already paid")
	// ErrNotSigned — оплата запрошена раньше подписания.
	ErrNotSigned = errors.New("proposal is not signed yet")
)

// ValidationError — ошибки входных данных с детализацией по полям.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for field, msg := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", field, msg))
	}
	sort.Strings(parts)
	return "validation failed: " + strings.Join(parts, "; ")
}

// validationErrors накапливает нарушения и отдает их одной ошибкой.
type validationErrors map[string]string

func (v validationErrors) add(field, msg string) { v[field] = msg }

func (v validationErrors) err() error {
	if len(v) == 0 {
		return nil
	}
	return &ValidationError{Fields: v}
}
