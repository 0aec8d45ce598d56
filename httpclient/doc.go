// Package httpclient provides the outbound HTTP client used for the PubMed
// and completion APIs. It layers bearer auth, request pacing, bounded
// retry, and status-code error classification over net/http.
package httpclient
