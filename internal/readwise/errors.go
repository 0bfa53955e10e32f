package readwise

import (
	"errors"
)

// ErrInvalidToken indicates the provided API token is invalid
var ErrInvalidToken = errors.New("invalid or expired Readwise token")
