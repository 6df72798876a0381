// Package logging provides the leveled logger shared by every command. It
// writes human-readable lines to the console, optionally mirrors them to a
// logfmt file, and counts error-level messages so the CLI can report a failing
// exit status even when a command completes.
package logging
