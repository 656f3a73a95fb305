package render_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeisme/hazopvault/pkg/internal/model"
	"github.com/yeisme/hazopvault/pkg/internal/render"
)

func sampleAnalysis() model.Analysis {
	return model.Analysis{
		ID:     "01J9Z3XK4M8V2Q6T0R1S5W7Y9B",
		FileID: "01J9Z3XK4M8V2Q6T0R1S5W7Y9A",
		Components: []model.Component{
			{Type: "valve", Confidence: 0.95, BBox: model.BBox{X: 100, Y: 100, Width: 50, Height: 50}},
			{Type: "pump", Confidence: 0.92, BBox: model.BBox{X: 200, Y: 200, Width: 60, Height: 60}},
		},
		SafetyIssues: []model.SafetyIssue{{
			Type:        "missing_relief_valve",
			Severity:    model.SeverityHigh,
			Description: "No relief valve detected in high-pressure section",
			Components:  []string{"pump-1"},
		}},
		CreatedAt: time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC),
	}
}

func TestRenderIsDeterministic(t *testing.T) {
	r := render.New(render.Options{Compress: true, Author: "hazopvault"})

	a, err := r.Render(sampleAnalysis())
	require.NoError(t, err)

	b, err := r.Render(sampleAnalysis())
	require.NoError(t, err)

	assert.True(t, bytes.HasPrefix(a, []byte("%PDF-")))
	assert.Equal(t, a, b)
}

func TestRenderLayout(t *testing.T) {
	r := render.New(render.Options{Compress: false})

	out, err := r.Render(sampleAnalysis())
	require.NoError(t, err)

	text := string(out)
	for _, want := range []string{
		render.Title,
		"Detected Components:",
		`- valve \(95.00% confidence\)`,
		`- pump \(92.00% confidence\)`,
		"Safety Issues:",
		`- missing_relief_valve \(high severity\)`,
		"Description: No relief valve detected in high-pressure section",
		"D:20240501123000",
	} {
		assert.Contains(t, text, want)
	}
}

func TestRenderEmptyAnalysis(t *testing.T) {
	r := render.New(render.Options{Compress: false})

	out, err := r.Render(model.Analysis{ID: "x", CreatedAt: time.Unix(0, 0).UTC()})
	require.NoError(t, err)

	text := string(out)
	assert.Contains(t, text, "Detected Components:")
	assert.Contains(t, text, "Safety Issues:")
	assert.NotContains(t, text, "Description:")
}

func TestLines(t *testing.T) {
	a := sampleAnalysis()

	assert.Equal(t, "- valve (95.00% confidence)", render.ComponentLine(a.Components[0]))
	assert.Equal(t, "- missing_relief_valve (high severity)", render.IssueLine(a.SafetyIssues[0]))
	assert.Equal(t, "  Description: No relief valve detected in high-pressure section", render.DescriptionLine(a.SafetyIssues[0]))
}
