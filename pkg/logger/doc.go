// Package logger provides slog helpers shared across authkit: a small factory
// for building configured *slog.Logger instances and attribute constructors
// that keep log field names consistent between packages.
package logger
