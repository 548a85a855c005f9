// Package errors provides structured, actionable error messages for nodetrace.
//
// Every error carries a code from the registry (e.g. "T001"), a category,
// a short message and an optional longer detail. Errors raised while reading
// a script or config file can also carry the source location, in which case
// Format prints the surrounding lines.
//
// # Error Categories
//
//   - trace: misuse of the tracing core (hook registration outside construction)
//   - config: invalid or unreadable nodetrace.yaml
//   - script: invalid replay scripts
//   - inspect: inspector server failures
//   - cli: command line usage errors
//
// # Usage
//
//	err := errors.New("T201").
//	    WithLocation("table.yaml", 12, 5).
//	    WithSuggestion("Declare the node before attaching it")
//
//	fmt.Println(err.Format())
package errors
