package command

import (
	"errors"
	"fmt"

	"github.com/tair/foodgram/internal/user/domain"
	"github.com/tair/foodgram/pkg/exceptions"
)

var errUserNotFound = exceptions.NotFound("Пользователь не найден")

// findUser maps a missing row to a 404 service error
func findUser(err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return errUserNotFound
	}
	return fmt.Errorf("failed to load user: %w", err)
}
