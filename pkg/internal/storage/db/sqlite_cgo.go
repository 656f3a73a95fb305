//go:build cgo

package db

import (
	"gorm.io/driver/sqlite"

	"github.com/yeisme/hazopvault/pkg/configs"
)

// cgo 可用时使用 mattn/go-sqlite3.
func init() { register(sqlite.Open, configs.SQLite) }
