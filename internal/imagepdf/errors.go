package imagepdf

import "errors"

// Sentinel errors for assembly.
var (
	ErrAssembly           = errors.New("PDF assembly failed")
	ErrInvalidOrientation = errors.New("invalid orientation")
	ErrInvalidDimensions  = errors.New("invalid image dimensions")
	ErrInvalidMargin      = errors.New("invalid margin")
	ErrDecode             = errors.New("failed to decode image")
)
