package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseQueryFilters(t *testing.T) {
	f := ParseQuery("/folder:math /name:quiz /type:activity leftover words")

	assert.Equal(t, "math", f.FolderName)
	assert.Equal(t, "quiz", f.Name)
	assert.Equal(t, "activity", f.Type)
	assert.Equal(t, "leftover words", f.Query)
}

func TestParseQueryInAlias(t *testing.T) {
	f := ParseQuery("/in:science volcano")

	assert.Equal(t, "science", f.FolderName)
	assert.Equal(t, "volcano", f.Query)
}

func TestParseQueryPreservesTypeCase(t *testing.T) {
	// Content type tags are camelCase, the filter must not be lowered.
	f := ParseQuery("/type:lessonPlan")
	assert.Equal(t, "lessonPlan", f.Type)
}

func TestParseQueryPlainText(t *testing.T) {
	f := ParseQuery("how do volcanoes erupt")

	assert.Empty(t, f.FolderName)
	assert.Empty(t, f.Name)
	assert.Empty(t, f.Type)
	assert.Equal(t, "how do volcanoes erupt", f.Query)
}

func TestDetermineStrategy(t *testing.T) {
	assert.Equal(t, StrategyLiteral, DetermineStrategy("rgb"))
	assert.Equal(t, StrategyLiteral, DetermineStrategy(`"exact phrase"`))
	assert.Equal(t, StrategyLiteral, DetermineStrategy("id:123"))
	assert.Equal(t, StrategySemantic, DetermineStrategy("how do volcanoes erupt"))
}
