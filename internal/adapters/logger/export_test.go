package logger

// FormatError renders err the way the pretty logger prints it, without the level icon.
func FormatError(err error) string {
	return formatErrorEntries(collectErrorEntries(err))
}
