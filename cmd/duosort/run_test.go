package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/timewinder-dev/duosort/catalog"
	"github.com/timewinder-dev/duosort/session"
)

func TestOverrideLanes(t *testing.T) {
	cfg := session.DefaultConfig()
	require.NoError(t, overrideLanes(cfg, []string{catalog.Heap}))
	require.Len(t, cfg.Lanes, 2)
	assert.Equal(t, catalog.Heap, cfg.Lanes[0].Algorithm)
	assert.Equal(t, catalog.Quick, cfg.Lanes[1].Algorithm)

	cfg = &session.Config{Lanes: []session.LaneConfig{{Algorithm: catalog.Bubble, IntervalMS: 5}}}
	require.NoError(t, overrideLanes(cfg, []string{catalog.Merge, catalog.Insertion}))
	require.Len(t, cfg.Lanes, 2)
	assert.Equal(t, 5, cfg.Lanes[0].IntervalMS)
	assert.Equal(t, session.LaneConfig{Algorithm: catalog.Insertion, IntervalMS: session.DefaultIntervalMS}, cfg.Lanes[1])

	err := overrideLanes(session.DefaultConfig(), []string{catalog.Bubble, catalog.Quick, catalog.Heap})
	assert.ErrorContains(t, err, "at most 2")
}
