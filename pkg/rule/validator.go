// Package rule 封装 go-playground/validator，统一使用 rule 标签.
//
// 配置结构体以 mapstructure 名称报告字段路径，例如 server.port，便于对照配置文件.
package rule

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

const tagName = "rule"

var (
	inst *validator.Validate
	once sync.Once
)

func setup() {
	inst = validator.New(validator.WithRequiredStructEnabled())
	inst.SetTagName(tagName)
	inst.RegisterTagNameFunc(fieldName)
}

// fieldName 优先 mapstructure，其次 json，都没有时用 Go 字段名.
func fieldName(f reflect.StructField) string {
	for _, tag := range []string{"mapstructure", "json"} {
		name, _, _ := strings.Cut(f.Tag.Get(tag), ",")
		if name == "-" {
			return ""
		}

		if name != "" {
			return name
		}
	}

	return f.Name
}

// Engine 返回共享的 validator 实例.
func Engine() *validator.Validate {
	once.Do(setup)

	return inst
}

// FieldError 单个字段的校验失败.
type FieldError struct {
	Path  string // 去掉根结构体名的点分路径
	Rule  string
	Param string
}

func (e FieldError) String() string {
	if e.Param == "" {
		return fmt.Sprintf("%s: failed %q", e.Path, e.Rule)
	}

	return fmt.Sprintf("%s: failed %q (%s)", e.Path, e.Rule, e.Param)
}

// Error 汇总一次校验的所有字段错误.
type Error struct {
	Fields []FieldError
}

func (e *Error) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.String()
	}

	return strings.Join(parts, "; ")
}

// ValidateStruct 校验结构体，字段失败时返回 *Error.
func ValidateStruct(s any) error {
	err := Engine().Struct(s)
	if err == nil {
		return nil
	}

	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		return err
	}

	out := &Error{Fields: make([]FieldError, 0, len(ves))}
	for _, fe := range ves {
		p := fe.Namespace()
		if _, rest, ok := strings.Cut(p, "."); ok {
			p = rest
		}

		out.Fields = append(out.Fields, FieldError{Path: p, Rule: fe.Tag(), Param: fe.Param()})
	}

	return out
}

// ValidateVar 按规则校验单个值，例如 ValidateVar(addr, "hostname_port").
func ValidateVar(field any, rules string) error {
	return Engine().Var(field, rules)
}

// ValidID 判断 s 是否为合法的资源 ID（26 位 Crockford base32 ULID）.
func ValidID(s string) bool {
	return ValidateVar(s, "required,ulid") == nil
}
