package submission

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sharath018/accreditation-data-backend/internal/schema"
)

func TestRowPassesEmptyRulesCarriesEverything(t *testing.T) {
	assert.True(t, rowPasses(map[string]any{"status": "completed"}, nil))
	assert.True(t, rowPasses(map[string]any{}, []schema.CarryRule{}))
}

func TestRowPassesEqualsMatch(t *testing.T) {
	rules := []schema.CarryRule{{Field: "status", Equals: []string{"ongoing", "extended"}}}

	assert.True(t, rowPasses(map[string]any{"status": "ongoing"}, rules))
	assert.True(t, rowPasses(map[string]any{"status": "extended"}, rules))
	assert.False(t, rowPasses(map[string]any{"status": "completed"}, rules))
}

func TestRowPassesMissingFieldFails(t *testing.T) {
	rules := []schema.CarryRule{{Field: "status", Equals: []string{"ongoing"}}}
	assert.False(t, rowPasses(map[string]any{"title": "AI Lab"}, rules))
}

func TestRowPassesEmptyEqualsRequiresPresenceOnly(t *testing.T) {
	rules := []schema.CarryRule{{Field: "status"}}

	assert.True(t, rowPasses(map[string]any{"status": "anything"}, rules))
	assert.False(t, rowPasses(map[string]any{}, rules))
}

func TestRowPassesAllRulesMustMatch(t *testing.T) {
	rules := []schema.CarryRule{
		{Field: "status", Equals: []string{"ongoing"}},
		{Field: "funded", Equals: []string{"true"}},
	}

	assert.True(t, rowPasses(map[string]any{"status": "ongoing", "funded": true}, rules))
	assert.False(t, rowPasses(map[string]any{"status": "ongoing", "funded": false}, rules))
}

func TestRowPassesCoercesNonStringValues(t *testing.T) {
	// payloads come back from jsonb, so numbers arrive as float64
	rules := []schema.CarryRule{{Field: "year", Equals: []string{"2025"}}}
	assert.True(t, rowPasses(map[string]any{"year": 2025}, rules))
}
