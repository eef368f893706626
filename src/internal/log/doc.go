// Package log provides simple leveled logging for the blocklist builder.
//
// Four levels are supported: DEBUG, INFO, WARN and ERROR. Debug messages are
// only printed in verbose mode. Errors always go to stderr; everything else
// goes to stdout unless SetForceStdErr(true) is used; the CLI does this so
// command output on stdout stays machine-readable.
//
// # Example Usage
//
//	log.Infof("Building list %q", name)
//	log.Warnf("Source file not found: %s", path)
//
//	log.SetVerbose(true)
//	log.Debugf("Rejected %s: %s", domain, reason)
//
// Output can be redirected, which is mostly useful in tests:
//
//	var out, errOut bytes.Buffer
//	log.SetOutput(&out, &errOut)
//
// All functions are safe for concurrent use; lists built in parallel never
// interleave partial lines.
package log
