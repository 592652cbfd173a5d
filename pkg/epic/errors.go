package epic

import "github.com/pkg/errors"

var (
	ErrContextMustBeSet = errors.New("context must be set")
	ErrActMustBeSet     = errors.New("act must be set")
	ErrEpicMustBeSet    = errors.New("epic must be set")
)
