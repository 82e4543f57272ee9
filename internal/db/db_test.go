package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSchemaEmbedded(t *testing.T) {
	assert.Contains(t, schemaSQL, "CREATE TABLE IF NOT EXISTS skill_analyses")
	assert.Contains(t, schemaSQL, "report        JSONB NOT NULL")
}

func TestClampLimit(t *testing.T) {
	assert.Equal(t, DefaultListLimit, clampLimit(0))
	assert.Equal(t, DefaultListLimit, clampLimit(-5))
	assert.Equal(t, 10, clampLimit(10))
	assert.Equal(t, MaxListLimit, clampLimit(MaxListLimit+1))
}

func TestSaveAnalysis_RequiresReport(t *testing.T) {
	db := &DB{}

	_, err := db.SaveAnalysis(context.Background(), nil)
	assert.Error(t, err)

	_, err = db.SaveAnalysis(context.Background(), &AnalysisInput{Candidate: "Ada"})
	assert.Error(t, err)
}
