package common

import "time"

const (
	// MaxRequestBody limits JSON request bodies for every endpoint.
	MaxRequestBody = 1 << 20
	// RequestTimeout bounds the store and catalog work done per request.
	RequestTimeout = 5 * time.Second
)
