package configs

import (
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// DBType 关系数据库类型，postgre/pg 与 mariadb 为别名.
type DBType string

const (
	PostgreSQL DBType = "postgresql"
	Postgres   DBType = "postgre"
	Pg         DBType = "pg"
	MySQL      DBType = "mysql"
	MariaDB    DBType = "mariadb"
	SQLite     DBType = "sqlite"
)

// DBConfig 分析结果与报告元数据所在的数据库.
type DBConfig struct {
	Type DBType `mapstructure:"type"     rule:"oneof=postgresql postgre pg mysql mariadb sqlite"`
	// DSN 非空时直接使用，忽略下面的连接字段.
	DSN      string `mapstructure:"dsn"`
	Host     string `mapstructure:"host"     rule:"omitempty,hostname|ip"`
	Port     int    `mapstructure:"port"     rule:"min=0,max=65535"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	// Database sqlite 时为文件路径（不含 .db 后缀）、":memory:" 或 file: URI.
	Database string `mapstructure:"database" rule:"required"`
	SSLMode  string `mapstructure:"sslmode"  rule:"omitempty,oneof=disable allow prefer require verify-ca verify-full"`

	MaxOpenConns    int           `mapstructure:"max_open_conns"    rule:"min=0"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"    rule:"min=0"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	// SlowQuery 超过该耗时的语句以 warn 记录，0 关闭.
	SlowQuery time.Duration `mapstructure:"slow_query"`
}

// GetDBType 返回数据库族名称，用于日志.
func (c *DBConfig) GetDBType() string {
	switch c.Type {
	case PostgreSQL, Postgres, Pg:
		return "PostgreSQL"
	case MySQL, MariaDB:
		return "MySQL"
	case SQLite:
		return "SQLite"
	default:
		return "unknown"
	}
}

// GetDSN 返回驱动连接串，未知类型返回空串.
func (c *DBConfig) GetDSN() string {
	if c.DSN != "" {
		return c.DSN
	}

	switch c.Type {
	case PostgreSQL, Postgres, Pg:
		parts := []string{
			"host=" + c.Host,
			"port=" + strconv.Itoa(c.Port),
			"user=" + c.User,
			"dbname=" + c.Database,
			"sslmode=" + c.SSLMode,
		}
		if c.Password != "" {
			parts = append(parts, "password="+c.Password)
		}

		return strings.Join(parts, " ")
	case MySQL, MariaDB:
		addr := net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
		return fmt.Sprintf("%s:%s@tcp(%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC", c.User, c.Password, addr, c.Database)
	case SQLite:
		if c.Database == ":memory:" || strings.HasPrefix(c.Database, "file:") {
			return c.Database
		}

		return "file:" + c.Database + ".db?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	default:
		return ""
	}
}

func (c *DBConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("db.type", SQLite)
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "postgres")
	v.SetDefault("db.database", AppName)
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open_conns", 0)
	v.SetDefault("db.max_idle_conns", 5)
	v.SetDefault("db.conn_max_lifetime", time.Hour)
	v.SetDefault("db.slow_query", 500*time.Millisecond)
}
