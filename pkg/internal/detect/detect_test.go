package detect_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeisme/hazopvault/pkg/internal/detect"
	"github.com/yeisme/hazopvault/pkg/internal/model"
)

func TestMockIsConstant(t *testing.T) {
	ctx := context.Background()

	a, err := detect.Run(ctx, detect.Mock{}, "01HZX0000000000000000000AA")
	require.NoError(t, err)

	b, err := detect.Run(ctx, detect.Mock{}, "01HZX0000000000000000000BB")
	require.NoError(t, err)

	assert.Equal(t, a, b)
	require.Len(t, a.Components, 2)
	assert.Equal(t, "valve", a.Components[0].Type)
	assert.Equal(t, "pump", a.Components[1].Type)
	require.Len(t, a.SafetyIssues, 1)
	assert.Equal(t, model.SeverityHigh, a.SafetyIssues[0].Severity)
}

func TestRunWrapsFailures(t *testing.T) {
	boom := detect.DetectorFunc(func(context.Context, string) (detect.Detection, error) {
		return detect.Detection{}, errors.New("model offline")
	})

	_, err := detect.Run(context.Background(), boom, "x")
	assert.ErrorIs(t, err, detect.ErrDetectionFailed)
}

func TestRunRejectsInvalidOutput(t *testing.T) {
	tests := map[string]detect.Detection{
		"confidence above one": {Components: []model.Component{{Type: "valve", Confidence: 1.5}}},
		"negative confidence":  {Components: []model.Component{{Type: "valve", Confidence: -0.1}}},
		"missing type":         {Components: []model.Component{{Confidence: 0.5}}},
		"unknown severity":     {SafetyIssues: []model.SafetyIssue{{Type: "leak", Severity: "catastrophic"}}},
	}

	for name, out := range tests {
		t.Run(name, func(t *testing.T) {
			d := detect.DetectorFunc(func(context.Context, string) (detect.Detection, error) { return out, nil })

			_, err := detect.Run(context.Background(), d, "x")
			assert.ErrorIs(t, err, detect.ErrDetectionFailed)
		})
	}
}

func TestMockHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := detect.Run(ctx, detect.Mock{}, "x")
	assert.ErrorIs(t, err, detect.ErrDetectionFailed)
}
