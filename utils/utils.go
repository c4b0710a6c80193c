// Package utils provides utility functions for the application.
package utils

import (
	"strings"

	"github.com/google/uuid"
)

func ToPtr[T any](v T) *T {
	return &v
}

func IsTrue(b *bool) bool {
	return b != nil && *b
}

// DerefString returns the pointed string or the fallback when nil or blank
func DerefString(s *string, fallback string) string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return fallback
	}
	return *s
}

// ParseUUID parses a UUID string after trimming surrounding whitespace
func ParseUUID(s string) (uuid.UUID, error) {
	return uuid.Parse(strings.TrimSpace(s))
}
