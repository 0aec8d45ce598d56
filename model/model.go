// Package model holds the domain types shared by the HTTP surface, the
// PubMed client, and the graph store.
package model

// Article is a modern scientific study as returned by PubMed and stored
// in the graph.
type Article struct {
	PMID            string   `json:"pmid" binding:"required"`
	Title           string   `json:"title" binding:"required"`
	Authors         []string `json:"authors" binding:"required"`
	Abstract        string   `json:"abstract,omitempty"`
	PublicationDate string   `json:"publication_date,omitempty"`
	Journal         string   `json:"journal,omitempty"`
	DOI             string   `json:"doi,omitempty"`
	Keywords        []string `json:"keywords,omitempty"`
}

// HypothesisRequest names the two nodes a hypothesis should connect.
type HypothesisRequest struct {
	HistID   string `json:"hist_id" binding:"required"`
	ModernID string `json:"modern_id" binding:"required"`
}

// DKGStub is the payload for the decentralized-knowledge-graph
// write-through stub endpoint. It is logged and echoed back verbatim.
type DKGStub struct {
	NodeID   string         `json:"node_id" binding:"required"`
	Metadata map[string]any `json:"metadata" binding:"required"`
}
