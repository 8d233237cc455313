package errors

import (
	"strings"
	"unicode"
)

// MaxRowsPerGroup bounds the rows-per-group setting to what a spreadsheet
// page can sensibly hold.
const MaxRowsPerGroup = 10000

// ValidateRowsPerGroup checks a rows-per-group value supplied by a flag,
// prompt, query parameter or config file.
func ValidateRowsPerGroup(n int) error {
	if n <= 0 {
		return New(ErrCodeInvalidConfig, "rows per group must be a positive integer, got %d", n)
	}
	if n > MaxRowsPerGroup {
		return New(ErrCodeInvalidConfig, "rows per group too large (max %d), got %d", MaxRowsPerGroup, n)
	}
	return nil
}

// ValidateUploadFilename validates a client-supplied file name for safety.
// It ensures the name is a simple basename without path components, since
// derived output names are echoed back in response headers.
func ValidateUploadFilename(filename string) error {
	if filename == "" {
		return New(ErrCodeInvalidInput, "file name cannot be empty")
	}

	if len(filename) > 255 {
		return New(ErrCodeInvalidInput, "file name too long (max 255 characters)")
	}

	for _, r := range filename {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "file name contains invalid control characters")
		}
	}

	if strings.ContainsAny(filename, "/\\") {
		return New(ErrCodeInvalidInput, "file name cannot contain path separators")
	}

	if strings.Contains(filename, "..") {
		return New(ErrCodeInvalidInput, "file name cannot contain path traversal sequences (..)")
	}

	return nil
}

// ValidateSheetName checks a worksheet name against spreadsheet rules:
// 1 to 31 characters, none of []:*?/\.
func ValidateSheetName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidConfig, "sheet name cannot be empty")
	}
	if n := len([]rune(name)); n > 31 {
		return New(ErrCodeInvalidConfig, "sheet name too long (max 31 characters), got %d", n)
	}
	if strings.ContainsAny(name, "[]:*?/\\") {
		return New(ErrCodeInvalidConfig, "sheet name %q contains one of []:*?/\\", name)
	}
	return nil
}
