// Package logger provides structured logging for Chronos built on zerolog.
// Components obtain a tagged logger via WithComponent and log through the
// leveled methods; a process-wide logger backs the package-level helpers.
package logger
