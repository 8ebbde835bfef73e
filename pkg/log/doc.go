// Package log builds [log/slog] handlers from user-facing level and format
// strings.
package log
