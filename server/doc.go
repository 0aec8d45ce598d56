// Package server hosts the Chronos HTTP API. It wraps a Gin engine with
// the standard middleware stack (recovery, request-ID, CORS, body-size
// limit, request logging) behind an h2c handler, and exposes the graph,
// search, OCR, and hypothesis endpoints.
package server
