package core

// validation.go guards file selection before anything reaches the network.
//
// Only tabular formats the backend can parse are accepted. The check is on
// the filename extension alone, case-insensitively; content sniffing is the
// backend's job.

import (
	"path/filepath"
	"slices"
	"strings"
)

// AllowedExtensions lists the accepted file extensions, without the dot.
var AllowedExtensions = []string{"csv", "tsv", "xlsx", "xls", "json", "parquet"}

// UnsupportedFileMessage is shown when a file is rejected by extension.
const UnsupportedFileMessage = "Unsupported file type. This tool only cleans CSV, Excel, JSON & Parquet tabular data."

// ValidationError reports a rejected file selection.
type ValidationError struct {
	Filename string
	Message  string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Is reports whether target is ErrValidation.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// ValidateFilename checks name against AllowedExtensions.
func ValidateFilename(name string) error {
	ext := strings.TrimPrefix(filepath.Ext(name), ".")
	if ext == "" || !slices.Contains(AllowedExtensions, strings.ToLower(ext)) {
		return &ValidationError{Filename: name, Message: UnsupportedFileMessage}
	}
	return nil
}

// AcceptAttribute returns the file input accept list, e.g. ".csv,.tsv".
func AcceptAttribute() string {
	exts := make([]string, len(AllowedExtensions))
	for i, ext := range AllowedExtensions {
		exts[i] = "." + ext
	}
	return strings.Join(exts, ",")
}
