// Package errors provides the structured error taxonomy for the adoptml
// pipeline. Every error carries a stack trace via cockroachdb/errors and the
// richer types implement zerolog object marshalling so they can be emitted as
// structured log fields.
package errors

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

// LoadError reports a dataset that could not be loaded: a missing file, a
// malformed row, or a missing value in a required column. Loading failures are
// fatal; no downstream stage can run on incomplete data.
type LoadError struct {
	Path   string
	Row    int    // 1-based data row, 0 when the whole file is at fault
	Column string // offending column name, empty when not column-specific
	Reason string
}

func (e *LoadError) Error() string {
	switch {
	case e.Row > 0 && e.Column != "":
		return fmt.Sprintf("adoptml: load %s: row %d, column %q: %s", e.Path, e.Row, e.Column, e.Reason)
	case e.Row > 0:
		return fmt.Sprintf("adoptml: load %s: row %d: %s", e.Path, e.Row, e.Reason)
	default:
		return fmt.Sprintf("adoptml: load %s: %s", e.Path, e.Reason)
	}
}

// MarshalZerologObject adds the structured load failure context to a zerolog event.
func (e *LoadError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("path", e.Path).
		Int("row", e.Row).
		Str("column", e.Column).
		Str("reason", e.Reason).
		Str("type", "LoadError")
}

// NewLoadError creates a LoadError with a stack trace attached.
func NewLoadError(path string, row int, column, reason string) error {
	err := &LoadError{Path: path, Row: row, Column: column, Reason: reason}
	return errors.WithStack(err)
}

// ConfigError reports an invalid pipeline configuration, such as a requested
// feature column that is absent from the dataset. Caught before any training
// starts.
type ConfigError struct {
	Param  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("adoptml: config: %s: %s", e.Param, e.Reason)
}

// MarshalZerologObject adds the structured config failure context to a zerolog event.
func (e *ConfigError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("param", e.Param).
		Str("reason", e.Reason).
		Str("type", "ConfigError")
}

// NewConfigError creates a ConfigError with a stack trace attached.
func NewConfigError(param, reason string) error {
	err := &ConfigError{Param: param, Reason: reason}
	return errors.WithStack(err)
}

// EvaluationError reports an evaluation that is mathematically undefined, such
// as AUC on a test set containing a single class. Surfaced to the caller of
// the specific fold or iteration rather than silently skipped, since dropping
// folds biases aggregate estimates.
type EvaluationError struct {
	Metric string
	Reason string
}

func (e *EvaluationError) Error() string {
	return fmt.Sprintf("adoptml: evaluate %s: %s", e.Metric, e.Reason)
}

// MarshalZerologObject adds the structured evaluation failure context to a zerolog event.
func (e *EvaluationError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("metric", e.Metric).
		Str("reason", e.Reason).
		Str("type", "EvaluationError")
}

// NewEvaluationError creates an EvaluationError with a stack trace attached.
func NewEvaluationError(metric, reason string) error {
	err := &EvaluationError{Metric: metric, Reason: reason}
	return errors.WithStack(err)
}

// NotFittedError is returned when Predict or PredictProba is called on a model
// that has not been fitted.
type NotFittedError struct {
	ModelName string
	Method    string
}

func (e *NotFittedError) Error() string {
	return fmt.Sprintf("adoptml: %s: model is not fitted yet, call Fit() before %s()", e.ModelName, e.Method)
}

// MarshalZerologObject adds the structured error context to a zerolog event.
func (e *NotFittedError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("model_name", e.ModelName).
		Str("method", e.Method).
		Str("type", "NotFittedError")
}

// NewNotFittedError creates a NotFittedError with a stack trace attached.
func NewNotFittedError(modelName, method string) error {
	err := &NotFittedError{ModelName: modelName, Method: method}
	return errors.WithStack(err)
}

// DimensionError reports input data whose dimensions do not match what an
// operation expects.
type DimensionError struct {
	Op       string
	Expected int
	Got      int
	Axis     int // 0 for rows, 1 for columns/features
}

func (e *DimensionError) Error() string {
	axisName := "features"
	if e.Axis == 0 {
		axisName = "rows"
	}
	return fmt.Sprintf("adoptml: %s: dimension mismatch on axis %d (%s): expected %d, got %d",
		e.Op, e.Axis, axisName, e.Expected, e.Got)
}

// MarshalZerologObject adds the structured error context to a zerolog event.
func (e *DimensionError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Int("expected", e.Expected).
		Int("got", e.Got).
		Int("axis", e.Axis).
		Str("type", "DimensionError")
}

// NewDimensionError creates a DimensionError with a stack trace attached.
func NewDimensionError(op string, expected, got, axis int) error {
	err := &DimensionError{Op: op, Expected: expected, Got: got, Axis: axis}
	return errors.WithStack(err)
}

// ValueError reports an argument whose value is unsuitable for an operation.
type ValueError struct {
	Op      string
	Message string
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("adoptml: %s: %s", e.Op, e.Message)
}

// NewValueError creates a ValueError with a stack trace attached.
func NewValueError(op, message string) error {
	err := &ValueError{Op: op, Message: message}
	return errors.WithStack(err)
}

// ValidationError reports a parameter that failed validation. More specific
// than ValueError: it names the parameter and carries the rejected value.
type ValidationError struct {
	ParamName string
	Reason    string
	Value     interface{}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("adoptml: validation failed for parameter %q: %s (got: %v)", e.ParamName, e.Reason, e.Value)
}

// MarshalZerologObject adds the structured error context to a zerolog event.
func (e *ValidationError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("param_name", e.ParamName).
		Str("reason", e.Reason).
		Interface("value", e.Value).
		Str("type", "ValidationError")
}

// NewValidationError creates a ValidationError with a stack trace attached.
func NewValidationError(param, reason string, value interface{}) error {
	err := &ValidationError{ParamName: param, Reason: reason, Value: value}
	return errors.WithStack(err)
}

// Is reports whether err matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain matching target's type.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Wrap wraps err with a message.
func Wrap(err error, message string) error {
	return errors.Wrap(err, message)
}

// Wrapf wraps err with a formatted message.
func Wrapf(err error, format string, args ...interface{}) error {
	return errors.Wrapf(err, format, args...)
}

// New creates a new error with a stack trace.
func New(message string) error {
	return errors.New(message)
}

// Newf creates a new formatted error with a stack trace.
func Newf(format string, args ...interface{}) error {
	return errors.Newf(format, args...)
}

// WithStack annotates err with a stack trace.
func WithStack(err error) error {
	return errors.WithStack(err)
}

var (
	// ErrEmptyData is returned when an operation receives no data.
	ErrEmptyData = New("empty data")
)
