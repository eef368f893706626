// Package lists downloads upstream list sources.
//
// A list with a source_url is fetched into the source directory as
// {name}.txt. The MD5 of the downloaded body is stored next to the file
// as {name}.txt.md5; when it matches the new body the file is left as is,
// so unchanged upstreams do not touch the working tree.
package lists
