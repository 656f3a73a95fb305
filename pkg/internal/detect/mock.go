package detect

import (
	"context"

	"github.com/yeisme/hazopvault/pkg/internal/model"
)

// Mock 对任何输入都返回固定结果的占位实现.
type Mock struct{}

func (Mock) Detect(ctx context.Context, _ string) (Detection, error) {
	if err := ctx.Err(); err != nil {
		return Detection{}, err
	}

	return Detection{
		Components: []model.Component{
			{Type: "valve", Confidence: 0.95, BBox: model.BBox{X: 100, Y: 100, Width: 50, Height: 50}},
			{Type: "pump", Confidence: 0.92, BBox: model.BBox{X: 200, Y: 200, Width: 60, Height: 60}},
		},
		SafetyIssues: []model.SafetyIssue{
			{
				Type:        "missing_relief_valve",
				Severity:    model.SeverityHigh,
				Description: "No relief valve detected in high-pressure section",
				Components:  []string{"pump-1"},
			},
		},
	}, nil
}
