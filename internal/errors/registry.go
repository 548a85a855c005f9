package errors

import "sort"

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Trace Errors (T001-T099)
	// ============================================

	"T001": {
		Category: CategoryTrace,
		Message:  "No active construction",
		Detail:   "Lifecycle hooks can only be bound while a component is being constructed.",
	},
	"T002": {
		Category: CategoryTrace,
		Message:  "Render stack underflow",
		Detail:   "A construction frame was popped more times than it was pushed.",
	},

	// ============================================
	// Config Errors (T100-T199)
	// ============================================

	"T100": {
		Category: CategoryConfig,
		Message:  "Config file not found",
	},
	"T101": {
		Category: CategoryConfig,
		Message:  "Invalid config file",
	},
	"T102": {
		Category: CategoryConfig,
		Message:  "Invalid config value",
	},

	// ============================================
	// Script Errors (T200-T299)
	// ============================================

	"T200": {
		Category: CategoryScript,
		Message:  "Invalid script",
	},
	"T201": {
		Category: CategoryScript,
		Message:  "Unknown node reference",
		Detail:   "The step refers to a node id that was never declared.",
	},
	"T202": {
		Category: CategoryScript,
		Message:  "Duplicate node id",
	},
	"T203": {
		Category: CategoryScript,
		Message:  "Unknown step operation",
	},
	"T204": {
		Category: CategoryScript,
		Message:  "Expectation failed",
		Detail:   "The recorded events differ from the script's expect list.",
	},
	"T205": {
		Category: CategoryScript,
		Message:  "Invalid tree mutation",
		Detail:   "A node cannot be inserted into itself or one of its descendants.",
	},

	// ============================================
	// Inspector Errors (T300-T399)
	// ============================================

	"T300": {
		Category: CategoryInspect,
		Message:  "Inspector server failed",
	},

	// ============================================
	// CLI Errors (T400-T499)
	// ============================================

	"T400": {
		Category: CategoryCLI,
		Message:  "Invalid arguments",
	},
}

// GetAllCodes returns all registered error codes in order.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// GetTemplate returns the template for an error code.
func GetTemplate(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}

// Register adds a new error template to the registry.
func Register(code string, template ErrorTemplate) {
	registry[code] = template
}
