package service

import (
	"fmt"

	"github.com/pkordes/itinerary/internal/domain"
)

// wrap prefixes err with op. Errors that are not one of the domain kinds are
// additionally tagged with domain.ErrStore so handlers can map them to 500
// while errors.Is still reaches the original cause.
func wrap(op string, err error) error {
	if domain.IsKnown(err) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%s: %w: %w", op, domain.ErrStore, err)
}
