package configs

import (
	"time"

	"github.com/spf13/viper"
)

// KVType 缓存后端类型.
type KVType string

const (
	KVTypeMemory     KVType = "memory"
	KVTypeRedis      KVType = "redis"
	KVTypeNATS       KVType = "nats"
	KVTypeGroupcache KVType = "groupcache"
)

// KVConfig 分析结果读缓存配置.
type KVConfig struct {
	Type       KVType             `mapstructure:"type"       rule:"oneof=memory redis nats groupcache"`
	Redis      RedisKVConfig      `mapstructure:"redis"`
	NATS       NATSKVConfig       `mapstructure:"nats"`
	Groupcache GroupcacheKVConfig `mapstructure:"groupcache"`
}

// RedisKVConfig Redis 缓存配置，KeyPrefix 用于与其他应用共用实例.
type RedisKVConfig struct {
	Addr      string `mapstructure:"addr"       rule:"hostname_port"`
	Password  string `mapstructure:"password"`
	DB        int    `mapstructure:"db"         rule:"min=0,max=15"`
	KeyPrefix string `mapstructure:"key_prefix"`
	PoolSize  int    `mapstructure:"pool_size"  rule:"min=0"`
}

// NATSKVConfig JetStream KeyValue 缓存配置.
type NATSKVConfig struct {
	URL      string `mapstructure:"url"      rule:"required"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Bucket   string `mapstructure:"bucket"   rule:"required"`
	// MaxAge bucket 级过期时间，0 表示不过期；单键 TTL 另行记录在值中.
	MaxAge   time.Duration `mapstructure:"max_age"`
	Replicas int           `mapstructure:"replicas" rule:"min=1,max=5"`
}

// GroupcacheKVConfig groupcache 缓存配置，Peers 为空时仅本机缓存.
type GroupcacheKVConfig struct {
	Group      string   `mapstructure:"group"       rule:"required"`
	CacheBytes int64    `mapstructure:"cache_bytes" rule:"min=1048576"`
	Self       string   `mapstructure:"self"        rule:"omitempty,url"`
	Peers      []string `mapstructure:"peers"       rule:"dive,url"`
}

func (c *KVConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("kv.type", KVTypeMemory)

	v.SetDefault("kv.redis.addr", "localhost:6379")
	v.SetDefault("kv.redis.db", 0)
	v.SetDefault("kv.redis.key_prefix", AppName+":")
	v.SetDefault("kv.redis.pool_size", 0)

	v.SetDefault("kv.nats.url", "nats://localhost:4222")
	v.SetDefault("kv.nats.bucket", AppName+"-cache")
	v.SetDefault("kv.nats.max_age", 24*time.Hour)
	v.SetDefault("kv.nats.replicas", 1)

	v.SetDefault("kv.groupcache.group", AppName+"-analysis")
	v.SetDefault("kv.groupcache.cache_bytes", 64<<20)
	v.SetDefault("kv.groupcache.self", "")
	v.SetDefault("kv.groupcache.peers", []string{})
}
