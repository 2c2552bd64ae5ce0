package repository

import "time"

const (
	// DefaultPushRetries is the number of retries for tag push network failures
	DefaultPushRetries = uint64(3)
	// DefaultPushRetryDelay is the initial delay for push retry backoff
	DefaultPushRetryDelay = 1 * time.Second
)
