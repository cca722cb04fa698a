package consoles

// Console is where progress and diagnostics go. The report itself is never written here.
type Console interface {
	// Printf shows informational messages. Visible with -v.
	Printf(format string, a ...any)
	// Debugf shows per file details. Visible with -vv.
	Debugf(format string, a ...any)
	// Warnf is always visible.
	Warnf(format string, a ...any)

	PushPrefix(format string, a ...any)
	PopPrefix()
}
