package mosaicdataset

import "errors"

// Error kinds surfaced by the dataset. Wrapped causes carry the detail;
// match with errors.Is.
var (
	// ErrNotConfigured is returned when GetImage or another operation is
	// invoked before a successful Create.
	ErrNotConfigured = errors.New("dataset not configured")

	// ErrConfig is returned by Create when the configuration is
	// self-inconsistent or incompatible with the mosaic's size.
	ErrConfig = errors.New("invalid configuration")

	// ErrLoad is returned by Create when the mosaic image or label file
	// cannot be read or parsed.
	ErrLoad = errors.New("load failed")

	// ErrExhaustedRetries is returned by GetImage when no qualifying crop
	// was found within the retry budget. This signals that the mosaic,
	// labels and configuration are too strict for the requested crop size,
	// not a transient condition.
	ErrExhaustedRetries = errors.New("no qualifying crop found within retry budget")
)
