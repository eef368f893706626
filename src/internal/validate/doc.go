// Package validate enforces blocklist quality rules on canonical domains.
//
// A Validator applies up to four independently toggleable checks in a fixed
// order and stops at the first failure:
//
//  1. false positive (loopback and local hostnames)
//  2. syntax
//  3. TLD plausibility
//  4. critical domain protection (exact or subdomain match)
//
// The reference tables are held in a Policy value. DefaultPolicy returns
// fresh copies of the built-in tables, so callers and tests may replace or
// extend them without affecting other users.
package validate
