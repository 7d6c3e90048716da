package governance

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/lonniev/dpyc-oracle/internal/tools"
)

func TestGetTools(t *testing.T) {
	toolList := GetTools()

	if len(toolList) != 3 {
		t.Fatalf("expected 3 tools, got %d", len(toolList))
	}

	names := []string{"renounce_membership", "initiate_ban_election", "cast_ban_vote"}
	for i, expected := range names {
		if toolList[i].Name() != expected {
			t.Errorf("expected tool %d to be '%s', got '%s'", i, expected, toolList[i].Name())
		}
		if toolList[i].Description() == "" {
			t.Errorf("tool %s has empty description", expected)
		}
		if len(toolList[i].Schema()) == 0 {
			t.Errorf("tool %s has empty schema", expected)
		}
	}
}

func TestStubsReportNotImplemented(t *testing.T) {
	inputs := map[string]string{
		"renounce_membership":   `{"npub": "npub1alice"}`,
		"initiate_ban_election": `{"target_npub": "npub1alice", "reason": "spam"}`,
		"cast_ban_vote":         `{"election_id": "election-1", "vote": "ban", "npub": "npub1alice"}`,
	}

	for _, tool := range GetTools() {
		_, err := tool.Execute(context.Background(), json.RawMessage(inputs[tool.Name()]))
		if err == nil {
			t.Errorf("%s: expected not-implemented error", tool.Name())
			continue
		}
		if !errors.Is(err, tools.ErrNotImplemented) {
			t.Errorf("%s: expected ErrNotImplemented, got %v", tool.Name(), err)
		}
		if !strings.Contains(err.Error(), tool.Name()) {
			t.Errorf("%s: error should name the tool, got %v", tool.Name(), err)
		}
	}
}
