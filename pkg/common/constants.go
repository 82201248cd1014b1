package common

import "time"

const (
	PoliciesCacheTTL = 30 * time.Minute
	PolicyCacheTTL   = 30 * time.Minute

	// SafeClassification is assigned when no policy matched the document.
	SafeClassification = "safe"

	// UnknownClassification is assigned when the document yielded no
	// readable text.
	UnknownClassification = "unknown"

	LatencyContextKey = "start_time"
)
