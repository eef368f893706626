// Package pipeline builds blocklists from their sources.
//
// A build of one list reads {source_dir}/{name}.txt, removes inline and
// external allowlist entries, validates the remaining domains, sorts them
// and writes one file per configured output format. Run builds many lists
// and records per-list failures without stopping the others.
// VerifyOutputConsistency re-reads the published files and reports lists
// whose formats disagree in entry count.
package pipeline
