package universe_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/policy/internal/adapters/universe"
	"go.trai.ch/policy/internal/core/domain"
)

const universeDoc = `{
  "local": {
    "1.0.0": {
      "location_type": "supermarket",
      "location_path": "https://supermarket.example/api/v1",
      "download_url": "https://supermarket.example/api/v1/cookbooks/local/versions/1.0.0/download",
      "dependencies": {"remote": ">= 1.0.0", "apt": "~> 2.0"}
    }
  },
  "remote": {
    "1.0.0": {"location_type": "supermarket", "download_url": "https://supermarket.example/api/v1/cookbooks/remote/versions/1.0.0/download", "dependencies": {}},
    "1.1.0": {"location_type": "supermarket", "download_url": "https://supermarket.example/api/v1/cookbooks/remote/versions/1.1.0/download"}
  },
  "apt": {
    "2.3.0": {"location_type": "supermarket", "location_path": "https://supermarket.example/api/v1"}
  }
}`

func TestParseDocument_Graph(t *testing.T) {
	doc, err := universe.ParseDocument([]byte(universeDoc))
	require.NoError(t, err)

	assert.Equal(t, domain.UniverseGraph{
		"local": {"1.0.0": {
			{Name: "apt", Requirement: "~> 2.0"},
			{Name: "remote", Requirement: ">= 1.0.0"},
		}},
		"remote": {
			"1.0.0": {},
			"1.1.0": {},
		},
		"apt": {"2.3.0": {}},
	}, doc.Graph())
}

func TestParseDocument_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "NotJSON", data: "<html>"},
		{name: "WrongShape", data: `{"local": ["1.0.0"]}`},
		{name: "InvalidVersion", data: `{"local": {"latest": {}}}`},
		{name: "InvalidRequirement", data: `{"local": {"1.0.0": {"dependencies": {"apt": ">= banana"}}}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := universe.ParseDocument([]byte(tt.data))
			require.Error(t, err)
			assert.Contains(t, err.Error(), domain.ErrUniverseParseFailed.Error())
		})
	}
}

func TestParseDocument_Null(t *testing.T) {
	doc, err := universe.ParseDocument([]byte("null"))
	require.NoError(t, err)
	assert.Empty(t, doc.Graph())
}

func TestFromGraph_RoundTrip(t *testing.T) {
	graph := domain.UniverseGraph{
		"local": {"1.0.0": {{Name: "remote", Requirement: "= 1.0.0"}}},
		"remote": {"1.0.0": {}},
	}
	doc := universe.FromGraph(graph, "inline")
	assert.Equal(t, "inline", doc["local"]["1.0.0"].LocationType)
	assert.Equal(t, graph, doc.Graph())
}
