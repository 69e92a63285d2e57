package main

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/MikeSquared-Agency/Ranker/internal/hermes"
	"github.com/MikeSquared-Agency/Ranker/internal/scoring"
)

func TestTruncateName(t *testing.T) {
	assert.Equal(t, "Emex", truncateName("Emex", 10))
	assert.Equal(t, "Autodoc Gm…", truncateName("Autodoc GmbH Berlin", 11))
	// Wide runes take two cells each.
	got := truncateName("部品部品部品", 7)
	assert.True(t, strings.HasSuffix(got, "…"))
	assert.LessOrEqual(t, len([]rune(got)), 4)
}

func TestPadRight(t *testing.T) {
	assert.Equal(t, "ab   ", padRight("ab", 5))
	assert.Equal(t, "abcdef", padRight("abcdef", 3))
	assert.Equal(t, "部品 ", padRight("部品", 5))
}

func TestFormatWeights(t *testing.T) {
	got := formatWeights(scoring.DefaultWeights())
	assert.True(t, strings.HasPrefix(got, "price="))
	assert.Len(t, strings.Fields(got), scoring.NumCriteria)
}

func TestFormatEvent(t *testing.T) {
	ts := time.Date(2026, 3, 1, 12, 30, 45, 0, time.UTC)

	completed := `{"run_id":"r1","kind":"supplier","mode":"forward","method":"genetic_algorithm","candidates_count":5,"best_id":"2","best_name":"Emex","best_score":0.8218,"execution_time":1.25,"timestamp":"` + ts.Format(time.RFC3339) + `"}`
	line := formatEvent(hermes.SubjectRunCompleted("r1"), []byte(completed))
	assert.Contains(t, line, "12:30:45 DONE")
	assert.Contains(t, line, `best=2 "Emex" 0.8218`)

	failed := `{"kind":"supplier","mode":"forward","reason":"source_failure","error":"db down","timestamp":"` + ts.Format(time.RFC3339) + `"}`
	line = formatEvent(hermes.SubjectRunFailed, []byte(failed))
	assert.Contains(t, line, "FAILED")
	assert.Contains(t, line, "source_failure: db down")

	progress := `{"kind":"article_brand","processed":1000,"total":4200,"timestamp":"` + ts.Format(time.RFC3339) + `"}`
	line = formatEvent(hermes.SubjectRunProgress("article_brand"), []byte(progress))
	assert.Contains(t, line, "PROGRESS article_brand 1000/4200")

	assert.Equal(t, "ranking.run.other not-json", formatEvent("ranking.run.other", []byte("not-json")))
	assert.Equal(t, "ranking.run.failed {", formatEvent(hermes.SubjectRunFailed, []byte("{")))
}
