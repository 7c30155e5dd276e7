package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"
	"syscall"

	"github.com/spf13/viper"

	"golang-statement-converter/pkg/errors"
	"golang-statement-converter/pkg/logger"
)

// CLIErrorHandler turns command errors into readable messages and exit codes
type CLIErrorHandler struct {
	logger  logger.Logger
	verbose bool
	out     io.Writer
}

// NewCLIErrorHandler creates a new CLI error handler writing to stderr
func NewCLIErrorHandler() *CLIErrorHandler {
	return &CLIErrorHandler{
		logger:  logger.GetGlobalLogger().WithComponent("cli"),
		verbose: viper.GetBool("verbose"),
		out:     os.Stderr,
	}
}

// HandleError prints err and returns the process exit code
func (h *CLIErrorHandler) HandleError(err error) int {
	if err == nil {
		return 0
	}

	h.logger.WithError(err).Debug("Command failed")

	if convErr, ok := errors.AsConverterError(err); ok {
		return h.handleConverterError(convErr)
	}
	return h.handleGenericError(err)
}

func (h *CLIErrorHandler) handleConverterError(err *errors.ConverterError) int {
	fmt.Fprintln(h.out, err.GetDetailedError())
	fmt.Fprintf(h.out, "\n%s\n", getCategoryHelp(err.Category))

	if h.verbose && len(err.StackTrace) > 0 {
		fmt.Fprintf(h.out, "\nStack trace:%+v\n", err.StackTrace)
	}

	return err.GetExitCode()
}

// handleGenericError covers errors raised outside the converter, mostly
// cobra flag parsing.
func (h *CLIErrorHandler) handleGenericError(err error) int {
	switch {
	case isFileNotFoundError(err):
		fmt.Fprintf(h.out, "Error: File not found\n")
		fmt.Fprintf(h.out, "Suggestion: Check if the file path is correct and the file exists\n")
		return 2
	case isPermissionError(err):
		fmt.Fprintf(h.out, "Error: Permission denied\n")
		fmt.Fprintf(h.out, "Suggestion: Check file permissions and ensure you have read access\n")
		return 2
	case isDiskFullError(err):
		fmt.Fprintf(h.out, "Error: Insufficient disk space\n")
		fmt.Fprintf(h.out, "Suggestion: Free up disk space and try again\n")
		return 5
	}

	fmt.Fprintf(h.out, "Error: %v\n", err)
	fmt.Fprintf(h.out, "Run 'stmtconv --help' for usage.\n")
	return 1
}

func getCategoryHelp(category errors.ErrorCategory) string {
	switch category {
	case errors.CategoryFile:
		return `File error help:
• Check that the export exists and is readable
• Check that the output directory can be created and written to`

	case errors.CategoryFormat:
		return `Format error help:
• The export must alternate a period label line with one statement line
• Blank lines between periods are allowed, blank statement lines are not
• Each period label may appear only once`

	case errors.CategoryParse, errors.CategoryValidation:
		return errors.SuggestionsForCommonErrors()

	case errors.CategoryConfiguration:
		return `Configuration error help:
• Check your command-line flags and STMTCONV_* environment variables
• Verify configuration file syntax if using --config
• Use 'stmtconv convert --help' to see all available options`

	case errors.CategoryExport:
		return `Export error help:
• Check free disk space and permissions on the output directory
• Choose an output format with --format csv, json or xlsx`

	default:
		return `For more help:
• Use 'stmtconv --help' for general help
• Run again with --verbose for more detail`
	}
}

func isFileNotFoundError(err error) bool {
	return os.IsNotExist(err) || strings.Contains(err.Error(), "no such file or directory")
}

func isPermissionError(err error) bool {
	return os.IsPermission(err) || strings.Contains(err.Error(), "permission denied")
}

func isDiskFullError(err error) bool {
	if err == syscall.ENOSPC {
		return true
	}
	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "no space left") || strings.Contains(errStr, "disk full")
}
