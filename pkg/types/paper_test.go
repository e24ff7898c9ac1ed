// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func samplePaper() Paper {
	return Paper{
		ID:        "paper_0001",
		Title:     "Advanced Ranking Algorithms for Web Search",
		Authors:   []string{"Dr. Sarah Chen", "Prof. David Kim"},
		Abstract:  "This paper presents novel ranking algorithms.",
		Keywords:  []string{"ranking", "relevance"},
		Year:      2021,
		Venue:     "SIGIR",
		Citations: 42,
	}
}

func TestPaperJSONRoundTripUnassigned(t *testing.T) {
	p := samplePaper()

	data, err := json.Marshal(p)
	require.NoError(t, err)

	// Unset cluster fields are emitted as null, never dropped.
	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Contains(t, raw, "cluster_id")
	assert.Contains(t, raw, "cluster_name")
	assert.Nil(t, raw["cluster_id"])
	assert.Nil(t, raw["cluster_name"])

	var back Paper
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, p, back)
	assert.False(t, back.Assigned())
}

func TestPaperJSONRoundTripAssigned(t *testing.T) {
	p := samplePaper()
	p.SetCluster(3, "Cluster 4: ranking, search, query")

	data, err := json.Marshal(p)
	require.NoError(t, err)

	var back Paper
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, p, back)
	require.True(t, back.Assigned())
	assert.Equal(t, 3, *back.ClusterID)
	assert.Equal(t, "Cluster 4: ranking, search, query", *back.ClusterName)
}

func TestPaperJSONOptionalFieldsAbsent(t *testing.T) {
	input := `{"id":"p1","title":"T","authors":["A"],"abstract":"x","keywords":["k"],"year":2020,"venue":"V"}`

	var p Paper
	require.NoError(t, json.Unmarshal([]byte(input), &p))
	assert.Equal(t, 0, p.Citations)
	assert.Nil(t, p.ClusterID)
	assert.Nil(t, p.ClusterName)
}

func TestPaperClusterFieldsMoveTogether(t *testing.T) {
	p := samplePaper()
	p.SetCluster(1, "Group 2: a, b, c")
	assert.True(t, p.Assigned())
	assert.True(t, p.InCluster(1))
	assert.False(t, p.InCluster(0))

	p.ClearCluster()
	assert.Nil(t, p.ClusterID)
	assert.Nil(t, p.ClusterName)
	assert.False(t, p.InCluster(1))
}

func TestPaperCloneIsDeep(t *testing.T) {
	p := samplePaper()
	p.SetCluster(0, "Topic 1: x, y, z")

	c := p.Clone()
	c.Keywords[0] = "changed"
	c.Authors[0] = "changed"
	*c.ClusterID = 7
	*c.ClusterName = "changed"

	assert.Equal(t, "ranking", p.Keywords[0])
	assert.Equal(t, "Dr. Sarah Chen", p.Authors[0])
	assert.Equal(t, 0, *p.ClusterID)
	assert.Equal(t, "Topic 1: x, y, z", *p.ClusterName)
}
