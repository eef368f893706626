// Package api provides the HTTP interface of the blocklist builder.
//
// The server exposes the configured lists, triggers builds and consistency
// checks, and serves Prometheus metrics:
//
//	GET  /api/v1/lists          configured lists with their published files
//	GET  /api/v1/lists/{name}   a single list
//	POST /api/v1/build          build every stable and beta list
//	POST /api/v1/build/{name}   build a single list
//	GET  /api/v1/verify         compare entry counts across formats
//	GET  /api/v1/health         configuration validity and staleness
//	GET  /metrics               Prometheus metrics
//
// # Response Format
//
// All successful responses wrap data in a "data" field:
//
//	{
//	  "data": { /* response payload */ }
//	}
//
// Error responses use the following format:
//
//	{
//	  "error": {
//	    "code": "ERROR_CODE",
//	    "message": "Human-readable error message",
//	    "details": { /* optional context */ }
//	  }
//	}
//
// The configuration is re-read on every request, so edits to the file are
// picked up without a restart. Builds are serialized.
package api
