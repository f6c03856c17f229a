package cmd

// Exit codes returned by the unthink binary.
const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess = 0

	// ExitGeneralError indicates an unspecified error occurred.
	ExitGeneralError = 1

	// ExitValidationError indicates invalid input (project name, tag, flags).
	ExitValidationError = 2

	// ExitNotFound indicates a missing file, directory or generator.
	ExitNotFound = 3

	// ExitPermissionDenied indicates a filesystem permission failure.
	ExitPermissionDenied = 4

	// ExitExternalError indicates an external command such as npm failed.
	ExitExternalError = 5
)

// ExitCodeName returns the name of the exit code.
func ExitCodeName(code int) string {
	switch code {
	case ExitSuccess:
		return "Success"
	case ExitGeneralError:
		return "General Error"
	case ExitValidationError:
		return "Validation Error"
	case ExitNotFound:
		return "Not Found"
	case ExitPermissionDenied:
		return "Permission Denied"
	case ExitExternalError:
		return "External Command Error"
	default:
		return "Unknown"
	}
}
