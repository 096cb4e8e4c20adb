package cmd

import (
	"strings"

	"github.com/fatih/color"
)

var (
	colorSuccess = color.New(color.FgGreen).SprintFunc()
	colorInfo    = color.New(color.FgCyan).SprintFunc()
	colorWarn    = color.New(color.FgYellow).SprintFunc()
	colorError   = color.New(color.FgRed).SprintFunc()
	colorHeading = color.New(color.Bold).SprintFunc()
)

// formatStatusWithColor colors the status words the audit summary prints.
func formatStatusWithColor(status string) string {
	switch strings.ToUpper(status) {
	case "OK", "PASS", "YES":
		return colorSuccess(status)
	case "WARN", "PASS_WITH_WARNINGS":
		return colorWarn(status)
	case "FAIL", "ERROR", "NO":
		return colorError(status)
	default:
		return status
	}
}
