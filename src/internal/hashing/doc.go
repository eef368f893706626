// Package hashing provides MD5 checksum helpers.
//
// ChecksumReaderProxy hashes a stream while it is being read; the fetch
// command uses it to skip rewriting upstream sources whose content did not
// change. DomainChecksum fingerprints a sorted domain sequence so two builds
// can be compared without diffing output files, whose headers carry a
// timestamp and therefore always differ.
package hashing
