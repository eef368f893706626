// Package merge implements the set algebra of the build pipeline.
//
// A Set holds canonical (lowercase) domains. Every operation is
// case-insensitive on its inputs and returns a new Set; inputs are never
// modified. Sort produces the lexicographic order required for reproducible
// diffs of the emitted files.
//
// CollapseSubdomains trades precision for size and is never applied unless a
// caller asks for it explicitly.
package merge
