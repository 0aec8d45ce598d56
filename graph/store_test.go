package graph

import (
	"context"
	"strings"
	"testing"

	apperrors "github.com/chronoslabs/chronos/errors"
	"github.com/chronoslabs/chronos/model"
)

// scriptedConn answers queries from a function.
type scriptedConn struct {
	run func(cypher string, params map[string]any) ([]Record, error)
}

func (s *scriptedConn) Verify(ctx context.Context) error { return nil }
func (s *scriptedConn) Close(ctx context.Context) error  { return nil }
func (s *scriptedConn) Run(ctx context.Context, cypher string, params map[string]any) ([]Record, error) {
	return s.run(cypher, params)
}

func clientWithScript(t *testing.T, run func(cypher string, params map[string]any) ([]Record, error)) *Client {
	t.Helper()
	return newTestClient(t, func(ctx context.Context) (conn, error) {
		return &scriptedConn{run: run}, nil
	})
}

func TestCreateHistoricalObservation(t *testing.T) {
	var gotParams map[string]any
	c := clientWithScript(t, func(cypher string, params map[string]any) ([]Record, error) {
		if !strings.Contains(cypher, "HistoricalObservation") {
			t.Errorf("unexpected cypher: %s", cypher)
		}
		gotParams = params
		return []Record{{"id": params["id"]}}, nil
	})

	id, err := c.CreateHistoricalObservation(context.Background(), "patients improved after willow bark", "galen-codex-12")
	if err != nil {
		t.Fatalf("CreateHistoricalObservation: %v", err)
	}
	if !strings.HasPrefix(id, "hist-") {
		t.Errorf("expected hist- prefixed id, got %q", id)
	}
	if gotParams["source_id"] != "galen-codex-12" {
		t.Errorf("unexpected params: %v", gotParams)
	}
}

func TestCreateModernStudy(t *testing.T) {
	c := clientWithScript(t, func(cypher string, params map[string]any) ([]Record, error) {
		if !strings.Contains(cypher, "ModernStudy") {
			t.Errorf("unexpected cypher: %s", cypher)
		}
		if params["pmid"] != "12345678" {
			t.Errorf("unexpected pmid param: %v", params["pmid"])
		}
		return []Record{{"id": params["id"]}}, nil
	})

	id, err := c.CreateModernStudy(context.Background(), model.Article{
		PMID:    "12345678",
		Title:   "Salicylates and inflammation",
		Authors: []string{"A. Researcher"},
	})
	if err != nil {
		t.Fatalf("CreateModernStudy: %v", err)
	}
	if !strings.HasPrefix(id, "mod-") {
		t.Errorf("expected mod- prefixed id, got %q", id)
	}
}

func TestCreateReturnsErrorOnEmptyResult(t *testing.T) {
	c := clientWithScript(t, func(cypher string, params map[string]any) ([]Record, error) {
		return nil, nil
	})

	_, err := c.CreateHistoricalObservation(context.Background(), "text", "src")
	if !apperrors.IsCode(err, apperrors.ErrCodeOperationFailed) {
		t.Fatalf("a create without a returned id must fail, got %v", err)
	}
}

func TestGetNodeByID(t *testing.T) {
	c := clientWithScript(t, func(cypher string, params map[string]any) ([]Record, error) {
		if params["id"] != "hist-abc" {
			return nil, nil
		}
		return []Record{{"n": map[string]any{"id": "hist-abc", "text": "observation"}}}, nil
	})

	props, err := c.GetNodeByID(context.Background(), "hist-abc")
	if err != nil {
		t.Fatalf("GetNodeByID: %v", err)
	}
	if props["text"] != "observation" {
		t.Errorf("unexpected props: %v", props)
	}
}

func TestGetNodeByIDNotFound(t *testing.T) {
	c := clientWithScript(t, func(cypher string, params map[string]any) ([]Record, error) {
		return nil, nil
	})

	_, err := c.GetNodeByID(context.Background(), "hist-missing")
	if !apperrors.IsCode(err, apperrors.ErrCodeNotFound) {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}

func TestCreateHypothesisLink(t *testing.T) {
	c := clientWithScript(t, func(cypher string, params map[string]any) ([]Record, error) {
		if !strings.Contains(cypher, "SUGGESTS_HYPOTHESIS") {
			t.Errorf("unexpected cypher: %s", cypher)
		}
		return []Record{{"id": params["rel_id"]}}, nil
	})

	id, err := c.CreateHypothesisLink(context.Background(), "hist-1", "mod-2", "Willow bark salicin reduces inflammation.")
	if err != nil {
		t.Fatalf("CreateHypothesisLink: %v", err)
	}
	if !strings.HasPrefix(id, "hyp-") {
		t.Errorf("expected hyp- prefixed id, got %q", id)
	}
}

func TestCreateHypothesisLinkMissingEndpoints(t *testing.T) {
	c := clientWithScript(t, func(cypher string, params map[string]any) ([]Record, error) {
		return nil, nil
	})

	_, err := c.CreateHypothesisLink(context.Background(), "hist-x", "mod-y", "h")
	if !apperrors.IsCode(err, apperrors.ErrCodeNotFound) {
		t.Fatalf("expected NOT_FOUND for missing endpoints, got %v", err)
	}
}
