// Package format renders sorted domain sequences into the four published
// blocklist representations: hosts, plain domains, AdGuard and dnsmasq.
//
// Format is a closed enum. Each format has a comment marker used for its
// metadata header and a line template used for every domain:
//
//	hosts    0.0.0.0 {domain}
//	domains  {domain}
//	adguard  ||{domain}^
//	dnsmasq  server=/{domain}/
package format
