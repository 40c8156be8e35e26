// Package correlation generates per-operation tracing identifiers.
//
// Per spec, the correlation ID is passed explicitly as a parameter through
// every component rather than carried via ambient context; this package only
// generates the ID. Logging adapters may additionally mirror it into
// context.Context via internal/logger.WithContext for log enrichment.
package correlation

import "github.com/google/uuid"

// New generates a fresh correlation ID.
func New() string {
	return uuid.New().String()
}

// OrNew returns id unchanged if non-empty, otherwise generates a new one.
// Commands whose correlation ID is absent get one auto-generated (spec §4.9).
func OrNew(id string) string {
	if id != "" {
		return id
	}
	return New()
}
