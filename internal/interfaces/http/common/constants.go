package common

const (
	// MaxRequestBody limits JSON request bodies.
	MaxRequestBody = 1 << 16
)
