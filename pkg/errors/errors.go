// Package errors provides the error taxonomy for the shopsync system.
// Reconciliation errors (duplicate or invalid records) are fatal to a run and
// carry the offending article id; collaborator errors (source, feed, sink)
// wrap the transport failure they originate from. All types support
// errors.Is/errors.As checks against the package sentinels.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// New returns an error that formats as the given text.
// It's an alias for the standard library errors.New for convenience.
var New = errors.New

// Common sentinel errors for the shopsync system
var (
	// ErrDuplicateArticle indicates a duplicate article id within one input set
	ErrDuplicateArticle = errors.New("duplicate article id")

	// ErrInvalidRecord indicates a record with a negative price or stock
	ErrInvalidRecord = errors.New("invalid record")

	// ErrSourceUnavailable indicates a collaborator could not be reached
	ErrSourceUnavailable = errors.New("source unavailable")

	// ErrFeedParse indicates the supplier feed could not be parsed
	ErrFeedParse = errors.New("feed parse failure")

	// ErrSinkRejected indicates the update sink rejected part of a batch
	ErrSinkRejected = errors.New("sink rejected updates")

	// ErrInvalidConfig indicates the configuration failed validation
	ErrInvalidConfig = errors.New("invalid configuration")
)

// DuplicateArticleError reports a duplicate article id within a single input
// collection, which is a precondition violation for reconciliation.
type DuplicateArticleError struct {
	ArticleID string
	Input     string // "listings" or "feed"
}

// Error implements the error interface
func (e *DuplicateArticleError) Error() string {
	return fmt.Sprintf("duplicate article id %q in %s", e.ArticleID, e.Input)
}

// Is implements errors.Is support
func (e *DuplicateArticleError) Is(target error) bool {
	return target == ErrDuplicateArticle
}

// NewDuplicateArticleError creates a new DuplicateArticleError
func NewDuplicateArticleError(articleID, input string) *DuplicateArticleError {
	return &DuplicateArticleError{ArticleID: articleID, Input: input}
}

// InvalidRecordError reports a record that failed validation, naming the
// field and the value that caused the failure.
type InvalidRecordError struct {
	ArticleID string
	Field     string
	Value     any
	Message   string
}

// Error implements the error interface
func (e *InvalidRecordError) Error() string {
	if e.ArticleID != "" {
		return fmt.Sprintf("invalid record %q: field %s (%v): %s", e.ArticleID, e.Field, e.Value, e.Message)
	}
	return fmt.Sprintf("invalid record: field %s (%v): %s", e.Field, e.Value, e.Message)
}

// Is implements errors.Is support
func (e *InvalidRecordError) Is(target error) bool {
	return target == ErrInvalidRecord
}

// NewInvalidRecordError creates a new InvalidRecordError
func NewInvalidRecordError(articleID, field string, value any, message string) *InvalidRecordError {
	return &InvalidRecordError{ArticleID: articleID, Field: field, Value: value, Message: message}
}

// SourceError represents a transport-level failure talking to a collaborator
// (marketplace API or supplier host).
type SourceError struct {
	Source     string
	Endpoint   string
	StatusCode int
	Err        error
}

// Error implements the error interface
func (e *SourceError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("source %s unavailable (status %d) at %s", e.Source, e.StatusCode, e.Endpoint)
	}
	return fmt.Sprintf("source %s unavailable at %s: %v", e.Source, e.Endpoint, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *SourceError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *SourceError) Is(target error) bool {
	return target == ErrSourceUnavailable
}

// NewSourceError creates a new SourceError
func NewSourceError(source, endpoint string, statusCode int, err error) *SourceError {
	return &SourceError{
		Source:     source,
		Endpoint:   endpoint,
		StatusCode: statusCode,
		Err:        err,
	}
}

// FeedParseError reports a supplier feed that could not be decoded into
// feed records.
type FeedParseError struct {
	Format  string // "xlsx", "csv", "zip"
	File    string
	Row     int
	Message string
	Err     error
}

// Error implements the error interface
func (e *FeedParseError) Error() string {
	if e.File != "" && e.Row > 0 {
		return fmt.Sprintf("feed parse error in %s file %s at row %d: %s", e.Format, e.File, e.Row, e.Message)
	}
	if e.File != "" {
		return fmt.Sprintf("feed parse error in %s file %s: %s", e.Format, e.File, e.Message)
	}
	return fmt.Sprintf("%s feed parse error: %s", e.Format, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *FeedParseError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *FeedParseError) Is(target error) bool {
	return target == ErrFeedParse
}

// NewFeedParseError creates a new FeedParseError
func NewFeedParseError(format, file string, row int, message string, err error) *FeedParseError {
	return &FeedParseError{
		Format:  format,
		File:    file,
		Row:     row,
		Message: message,
		Err:     err,
	}
}

// SinkRejectedError reports updates an update sink refused to apply.
// RejectedIDs carries the article ids of the rejected subset.
type SinkRejectedError struct {
	Sink        string
	RejectedIDs []string
	Err         error
}

// Error implements the error interface
func (e *SinkRejectedError) Error() string {
	if len(e.RejectedIDs) > 0 {
		return fmt.Sprintf("sink %s rejected %d updates: %s", e.Sink, len(e.RejectedIDs), strings.Join(e.RejectedIDs, ", "))
	}
	return fmt.Sprintf("sink %s rejected updates: %v", e.Sink, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *SinkRejectedError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *SinkRejectedError) Is(target error) bool {
	return target == ErrSinkRejected
}

// NewSinkRejectedError creates a new SinkRejectedError
func NewSinkRejectedError(sink string, rejectedIDs []string, err error) *SinkRejectedError {
	return &SinkRejectedError{
		Sink:        sink,
		RejectedIDs: rejectedIDs,
		Err:         err,
	}
}

// ConfigError represents a configuration error surfaced at construction.
type ConfigError struct {
	Component string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	if e.Component != "" {
		return fmt.Sprintf("configuration error in %s: %s", e.Component, e.Message)
	}
	return fmt.Sprintf("configuration error: %s", e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *ConfigError) Is(target error) bool {
	return target == ErrInvalidConfig
}

// NewConfigError creates a new ConfigError
func NewConfigError(component, message string, err error) *ConfigError {
	return &ConfigError{
		Component: component,
		Message:   message,
		Err:       err,
	}
}

// Helper functions for error checking

// IsDuplicateArticle checks if an error is a duplicate article error
func IsDuplicateArticle(err error) bool {
	return errors.Is(err, ErrDuplicateArticle)
}

// IsInvalidRecord checks if an error is an invalid record error
func IsInvalidRecord(err error) bool {
	return errors.Is(err, ErrInvalidRecord)
}

// IsSourceUnavailable checks if an error indicates collaborator unavailability
func IsSourceUnavailable(err error) bool {
	return errors.Is(err, ErrSourceUnavailable)
}

// IsFeedParse checks if an error is a feed parse error
func IsFeedParse(err error) bool {
	return errors.Is(err, ErrFeedParse)
}

// IsSinkRejected checks if an error is a sink rejection
func IsSinkRejected(err error) bool {
	return errors.Is(err, ErrSinkRejected)
}

// Helper wrapping functions for common patterns

// WrapSource wraps an error as a SourceError
func WrapSource(source, endpoint string, err error) error {
	if err == nil {
		return nil
	}
	return NewSourceError(source, endpoint, 0, err)
}

// WrapFeedParse wraps an error as a FeedParseError
func WrapFeedParse(format, file string, err error) error {
	if err == nil {
		return nil
	}
	return NewFeedParseError(format, file, 0, err.Error(), err)
}
