//go:build !cgo

package db

import (
	"github.com/glebarez/sqlite"

	"github.com/yeisme/hazopvault/pkg/configs"
)

// 交叉编译或 CGO_ENABLED=0 时使用纯 Go 的 modernc 驱动.
func init() { register(sqlite.Open, configs.SQLite) }
