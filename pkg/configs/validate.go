package configs

import (
	"fmt"

	"github.com/yeisme/hazopvault/pkg/rule"
)

// Validate 使用 rule 标签校验配置.
func Validate(c *AppConfig) error {
	if err := rule.ValidateStruct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	return nil
}
