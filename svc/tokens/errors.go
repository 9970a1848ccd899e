package tokens

import "errors"

var (
	ErrMissingSecret  = errors.New("secret is required")
	ErrMalformedToken = errors.New("token is malformed")
)
