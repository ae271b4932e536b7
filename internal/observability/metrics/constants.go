// Package metrics provides Prometheus collectors for tickwatch components.
package metrics

// Status label values.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Operation label values for local cache metrics.
const (
	OpCacheSave    = "save"
	OpCacheLoadAll = "load_all"
	OpCacheClear   = "clear"
)

// Submission outcomes.
const (
	SubmissionRemote       = "remote"
	SubmissionSavedLocally = "saved_locally"
	SubmissionRejected     = "rejected"
)

// Histogram bucket parameters: 10ms doubling to ~5s for HTTP and SQL latencies.
const (
	BucketStart10ms = 0.01
	BucketFactor2   = 2
	BucketCount10   = 10
)
