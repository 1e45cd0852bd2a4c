package core

import (
	"errors"
)

var (
	// ErrInvalidSetHandle is wrapped by descriptor operations attempted
	// on a handle whose frame slot was reset since allocation.
	ErrInvalidSetHandle = errors.New("descriptor set handle is stale")
	ErrUnknown          = errors.New("unknown")
)
