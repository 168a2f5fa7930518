package mutate

import (
	"errors"
	"fmt"
)

// ErrCycle is returned in strict mode when linking a list would make it an
// ancestor of itself.
var ErrCycle = errors.New("link would create a cycle")

// NotFoundError reports an unknown list or item id.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.ID)
}
