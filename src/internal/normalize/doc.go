// Package normalize extracts canonical domains from blocklist lines.
//
// Every line is tried against the known shapes in a fixed order (hosts,
// AdGuard, dnsmasq server, dnsmasq address, bare domain) and the first
// matching shape decides the extraction. Lines that are blank, commented or
// unrecognized are skipped without error.
package normalize
