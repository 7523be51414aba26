package internal

import "fmt"

// SourceError represents errors loading the chat page document
type SourceError struct {
	Source string // "file", "http", "browser"
	Op     string // "open", "fetch", "parse", "connect"
	Err    error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("source error: %s %s: %v", e.Op, e.Source, e.Err)
}

func (e *SourceError) Unwrap() error {
	return e.Err
}

// AnalysisError represents a failed call to one of the analysis servers.
// StatusCode is zero for transport, timeout and decode failures.
type AnalysisError struct {
	Endpoint   string // "/analyze_chat", "/generate_stats", "/health"
	StatusCode int
	Err        error
}

func (e *AnalysisError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("analysis error [%s] status %d: %v", e.Endpoint, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("analysis error [%s]: %v", e.Endpoint, e.Err)
}

func (e *AnalysisError) Unwrap() error {
	return e.Err
}

// ConfigError represents an invalid configuration value
type ConfigError struct {
	Key string
	Err error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error [%s]: %v", e.Key, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// ExportError represents errors during export
type ExportError struct {
	Format string
	Path   string
	Err    error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("export error [%s] %s: %v", e.Format, e.Path, e.Err)
}

func (e *ExportError) Unwrap() error {
	return e.Err
}
