package configs

import (
	"time"

	"github.com/spf13/viper"
)

// MQType 消息队列类型.
type MQType string

const (
	MQTypeMemory MQType = "memory" // watermill gochannel，进程内
	MQTypeNATS   MQType = "nats"
	MQTypeRedis  MQType = "redis"
)

const (
	DefaultMQBufferSize    = 256             // 进程内与 Redis 订阅通道缓冲
	DefaultMQMaxReconnects = 10              // NATS 最大重连次数
	DefaultMQReconnectWait = 2 * time.Second // NATS 重连间隔
	DefaultMQAckTimeout    = 30 * time.Second
)

// MQConfig 消息队列配置，承载流水线事件（hz.* 主题）.
type MQConfig struct {
	Type MQType `mapstructure:"type" rule:"oneof=memory nats redis"`
	// BufferSize 订阅通道缓冲大小.
	BufferSize int `mapstructure:"buffer_size" rule:"min=0,max=1048576"`
	// Metrics 为 Publisher/Subscriber 挂载 watermill prometheus 指标，需同时开启 metrics.enabled.
	Metrics bool          `mapstructure:"metrics"`
	NATS    MQNATSConfig  `mapstructure:"nats"`
	Redis   MQRedisConfig `mapstructure:"redis"`
}

// MQNATSConfig NATS 配置.
type MQNATSConfig struct {
	URL           string        `mapstructure:"url"`
	ClusterURLs   []string      `mapstructure:"cluster_urls"`
	User          string        `mapstructure:"user"`
	Password      string        `mapstructure:"password"`
	JWT           string        `mapstructure:"jwt"`
	NKey          string        `mapstructure:"nkey"`
	ClientName    string        `mapstructure:"client_name"`
	MaxReconnects int           `mapstructure:"max_reconnects" rule:"min=-1"`
	ReconnectWait time.Duration `mapstructure:"reconnect_wait"`
	// JetStream 开启后事件持久化，订阅者重启不丢消息.
	JetStream     bool   `mapstructure:"jetstream"`
	DurablePrefix string `mapstructure:"durable_prefix"`
	// QueueGroup 非空时同组订阅者分摊消息.
	QueueGroup string        `mapstructure:"queue_group"`
	AckTimeout time.Duration `mapstructure:"ack_timeout"`
}

// MQRedisConfig Redis Pub/Sub 配置.
type MQRedisConfig struct {
	Addr     string `mapstructure:"addr"     rule:"omitempty,hostname_port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"       rule:"min=0,max=15"`
}

// Servers 返回 NATS 连接串，集群地址优先.
func (c *MQNATSConfig) Servers() string {
	if len(c.ClusterURLs) == 0 {
		return c.URL
	}

	servers := c.ClusterURLs[0]
	for _, u := range c.ClusterURLs[1:] {
		servers += "," + u
	}

	return servers
}

// setDefaults 设置MQ配置的默认值.
func (c *MQConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("mq.type", MQTypeMemory)
	v.SetDefault("mq.buffer_size", DefaultMQBufferSize)
	v.SetDefault("mq.metrics", true)

	v.SetDefault("mq.nats.url", "nats://localhost:4222")
	v.SetDefault("mq.nats.client_name", AppName)
	v.SetDefault("mq.nats.max_reconnects", DefaultMQMaxReconnects)
	v.SetDefault("mq.nats.reconnect_wait", DefaultMQReconnectWait)
	v.SetDefault("mq.nats.jetstream", true)
	v.SetDefault("mq.nats.durable_prefix", AppName)
	v.SetDefault("mq.nats.queue_group", "")
	v.SetDefault("mq.nats.ack_timeout", DefaultMQAckTimeout)

	v.SetDefault("mq.redis.addr", "localhost:6379")
	v.SetDefault("mq.redis.db", 0)
}
