package graph

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/chronoslabs/chronos/errors"
	"github.com/chronoslabs/chronos/logger"
	"github.com/chronoslabs/chronos/model"
)

// CreateHistoricalObservation stores a historical-text observation and
// returns its node ID.
func (c *Client) CreateHistoricalObservation(ctx context.Context, text, sourceID string) (string, error) {
	nodeID := fmt.Sprintf("hist-%s", uuid.New())
	cypher := `
	CREATE (h:HistoricalObservation {
		id: $id,
		text: $text,
		source_id: $source_id,
		created_at: datetime()
	})
	RETURN h.id AS id`

	records, err := c.Execute(ctx, cypher, map[string]any{
		"id":        nodeID,
		"text":      text,
		"source_id": sourceID,
	})
	if err != nil {
		return "", err
	}

	id, err := singleID(records)
	if err != nil {
		return "", errors.OperationFailed("graph store", "create historical observation", err)
	}
	c.log.Info("Created historical observation node", logger.Fields("id", id))
	return id, nil
}

// CreateModernStudy stores a modern study article and returns its node ID.
func (c *Client) CreateModernStudy(ctx context.Context, article model.Article) (string, error) {
	nodeID := fmt.Sprintf("mod-%s", uuid.New())
	cypher := `
	CREATE (m:ModernStudy {
		id: $id,
		pmid: $pmid,
		title: $title,
		authors: $authors,
		abstract: $abstract,
		publication_date: $publication_date,
		journal: $journal,
		doi: $doi,
		keywords: $keywords,
		created_at: datetime()
	})
	RETURN m.id AS id`

	records, err := c.Execute(ctx, cypher, map[string]any{
		"id":               nodeID,
		"pmid":             article.PMID,
		"title":            article.Title,
		"authors":          article.Authors,
		"abstract":         article.Abstract,
		"publication_date": article.PublicationDate,
		"journal":          article.Journal,
		"doi":              article.DOI,
		"keywords":         article.Keywords,
	})
	if err != nil {
		return "", err
	}

	id, err := singleID(records)
	if err != nil {
		return "", errors.OperationFailed("graph store", "create modern study", err)
	}
	c.log.Info("Created modern study node", logger.Fields("id", id, "pmid", article.PMID))
	return id, nil
}

// GetNodeByID fetches any node's properties by its id property. A missing
// node surfaces as NOT_FOUND, distinct from any infrastructure failure.
func (c *Client) GetNodeByID(ctx context.Context, nodeID string) (map[string]any, error) {
	cypher := `
	MATCH (n)
	WHERE n.id = $id
	RETURN n`

	records, err := c.Execute(ctx, cypher, map[string]any{"id": nodeID})
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, errors.NotFound("node", nodeID)
	}

	props, ok := records[0]["n"].(map[string]any)
	if !ok {
		return nil, errors.OperationFailed("graph store", "get node",
			fmt.Errorf("unexpected record shape for node %s", nodeID))
	}
	return props, nil
}

// CreateHypothesisLink connects a historical observation to a modern study
// with a SUGGESTS_HYPOTHESIS relationship carrying the generated text.
func (c *Client) CreateHypothesisLink(ctx context.Context, histID, modID, hypothesis string) (string, error) {
	relID := fmt.Sprintf("hyp-%s", uuid.New())
	cypher := `
	MATCH (h:HistoricalObservation), (m:ModernStudy)
	WHERE h.id = $hist_id AND m.id = $mod_id
	CREATE (h)-[r:SUGGESTS_HYPOTHESIS {
		id: $rel_id,
		hypothesis: $hypothesis,
		created_at: datetime()
	}]->(m)
	RETURN r.id AS id`

	records, err := c.Execute(ctx, cypher, map[string]any{
		"hist_id":    histID,
		"mod_id":     modID,
		"rel_id":     relID,
		"hypothesis": hypothesis,
	})
	if err != nil {
		return "", err
	}
	if len(records) == 0 {
		// MATCH found no endpoint pair, so nothing was created.
		return "", errors.NotFound("node pair", histID+","+modID)
	}

	id, err := singleID(records)
	if err != nil {
		return "", errors.OperationFailed("graph store", "create hypothesis link", err)
	}
	c.log.Info("Created hypothesis connection", logger.Fields("id", id))
	return id, nil
}

// singleID extracts the "id" column of the first record. Operations whose
// semantics require a result must never silently return an empty default.
func singleID(records []Record) (string, error) {
	if len(records) == 0 {
		return "", fmt.Errorf("no records returned")
	}
	id, ok := records[0]["id"].(string)
	if !ok {
		return "", fmt.Errorf("id missing from result")
	}
	return id, nil
}
