// Package pubmed searches the NCBI E-utilities API for modern studies.
// A search runs in two phases, esearch for the matching ID list and
// efetch for the article records, with both phases paced by a shared
// rate limiter and the combined result cached.
package pubmed
