package errors

import (
	"bufio"
	"fmt"
	"os"
)

// Category represents the type of error.
type Category string

const (
	CategoryTrace   Category = "trace"
	CategoryConfig  Category = "config"
	CategoryScript  Category = "script"
	CategoryInspect Category = "inspect"
	CategoryCLI     Category = "cli"
)

// Location represents a source location inside a script or config file.
type Location struct {
	File   string `json:"file,omitempty"`
	Line   int    `json:"line"`
	Column int    `json:"column,omitempty"`
}

// String returns the location as a formatted string.
func (l *Location) String() string {
	if l == nil {
		return ""
	}
	if l.Column > 0 {
		return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
	}
	return fmt.Sprintf("%s:%d", l.File, l.Line)
}

// TraceError is a structured error with an optional source location and hint.
type TraceError struct {
	// Code is a unique error identifier (e.g., "T001").
	Code string

	// Category is the error type (trace, config, script, ...).
	Category Category

	// Message is a short description of the error.
	Message string

	// Detail is a longer explanation of the error.
	Detail string

	// Location is the file location where the error occurred.
	Location *Location

	// Context contains surrounding source lines.
	Context []string

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *TraceError) Error() string {
	msg := e.Message
	if e.Code != "" {
		msg = fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	if e.Detail != "" {
		msg += " (" + e.Detail + ")"
	}
	return msg
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *TraceError) Unwrap() error {
	return e.Wrapped
}

// WithLocation adds a file location to the error and loads the lines around it.
func (e *TraceError) WithLocation(file string, line, column int) *TraceError {
	e.Location = &Location{File: file, Line: line, Column: column}
	e.Context = readContextLines(file, line, 5)
	return e
}

// WithSuggestion adds a fix suggestion to the error.
func (e *TraceError) WithSuggestion(s string) *TraceError {
	e.Suggestion = s
	return e
}

// WithDetail adds a detailed explanation to the error.
func (e *TraceError) WithDetail(d string) *TraceError {
	e.Detail = d
	return e
}

// Wrap wraps another error.
func (e *TraceError) Wrap(err error) *TraceError {
	e.Wrapped = err
	return e
}

// readContextLines reads lines around the specified line number from a file.
func readContextLines(filename string, targetLine, contextSize int) []string {
	file, err := os.Open(filename)
	if err != nil {
		return nil
	}
	defer file.Close()

	startLine := targetLine - contextSize/2
	if startLine < 1 {
		startLine = 1
	}
	endLine := startLine + contextSize - 1

	var lines []string
	scanner := bufio.NewScanner(file)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		if lineNum >= startLine && lineNum <= endLine {
			lines = append(lines, scanner.Text())
		}
		if lineNum > endLine {
			break
		}
	}

	return lines
}

// New creates a TraceError from a registered error code.
func New(code string) *TraceError {
	template, ok := registry[code]
	if !ok {
		return &TraceError{
			Code:    code,
			Message: "Unknown error",
		}
	}
	return &TraceError{
		Code:     code,
		Category: template.Category,
		Message:  template.Message,
		Detail:   template.Detail,
	}
}

// Newf creates a new TraceError with a formatted message (no code).
func Newf(category Category, format string, args ...any) *TraceError {
	return &TraceError{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}

// FromError wraps a standard error in a TraceError.
func FromError(err error, code string) *TraceError {
	if err == nil {
		return nil
	}
	if te, ok := err.(*TraceError); ok {
		return te
	}
	return New(code).Wrap(err)
}
