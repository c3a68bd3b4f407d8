package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIndexingSettings_Normalize(t *testing.T) {
	s := IndexingSettings{
		ChunkSize:         0,
		ChunkOverlap:      -10,
		BatchSize:         0,
		BatchDelay:        -time.Second,
		EMAAlpha:          0,
		MaxRetries:        -1,
		Passes:            0,
		AnalysisBatchSize: -3,
	}
	s.Normalize()

	assert.Equal(t, 1, s.ChunkSize)
	assert.Equal(t, 0, s.ChunkOverlap)
	assert.Equal(t, 1, s.BatchSize)
	assert.Equal(t, time.Duration(0), s.BatchDelay)
	assert.Equal(t, DefaultIndexingSettings().EMAAlpha, s.EMAAlpha)
	assert.Equal(t, 0, s.MaxRetries)
	assert.Equal(t, 1, s.Passes)
	assert.Equal(t, 1, s.AnalysisBatchSize)
}

func TestIndexingSettings_NormalizeKeepsUsableValues(t *testing.T) {
	s := DefaultIndexingSettings()
	s.Normalize()
	assert.Equal(t, DefaultIndexingSettings(), s)
}
