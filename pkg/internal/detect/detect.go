// Package detect 定义元件识别的接口，流水线只依赖 Detector，具体模型可替换.
package detect

import (
	"context"
	"errors"
	"fmt"

	"github.com/yeisme/hazopvault/pkg/internal/model"
	"github.com/yeisme/hazopvault/pkg/rule"
)

// ErrDetectionFailed 识别过程失败或返回了不合法的结果.
var ErrDetectionFailed = errors.New("detection failed")

// Detection 一次识别的输出.
type Detection struct {
	Components   []model.Component   `rule:"dive"`
	SafetyIssues []model.SafetyIssue `rule:"dive"`
}

// Detector 根据已存储图像的标识给出识别结果.
type Detector interface {
	Detect(ctx context.Context, fileID string) (Detection, error)
}

// DetectorFunc 适配普通函数为 Detector.
type DetectorFunc func(ctx context.Context, fileID string) (Detection, error)

func (f DetectorFunc) Detect(ctx context.Context, fileID string) (Detection, error) {
	return f(ctx, fileID)
}

// Run 调用 d 并校验输出，所有失败都包装为 ErrDetectionFailed.
func Run(ctx context.Context, d Detector, fileID string) (Detection, error) {
	out, err := d.Detect(ctx, fileID)
	if err != nil {
		return Detection{}, fmt.Errorf("%w: %v", ErrDetectionFailed, err)
	}

	if err := rule.ValidateStruct(out); err != nil {
		return Detection{}, fmt.Errorf("%w: invalid output: %v", ErrDetectionFailed, err)
	}

	return out, nil
}
