package experiment

import (
	"errors"

	"github.com/san-kum/mdsim/internal/minimize"
)

func isNotConverged(err error) bool {
	return errors.Is(err, minimize.ErrNotConverged)
}
