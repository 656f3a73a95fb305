// Package ids 生成与校验资源标识（ULID）.
package ids

import (
	crand "crypto/rand"
	"sync"
	"time"

	"github.com/oklog/ulid"

	"github.com/yeisme/hazopvault/pkg/rule"
)

var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(crand.Reader, 0)
)

// New 返回一个新的 ULID 字符串，同一毫秒内单调递增.
func New() string {
	return NewAt(time.Now())
}

// NewAt 使用指定时间生成 ULID.
func NewAt(t time.Time) string {
	entropyMu.Lock()
	defer entropyMu.Unlock()

	return ulid.MustNew(ulid.Timestamp(t), entropy).String()
}

// Valid 判断 s 是否为合法的资源标识.
func Valid(s string) bool {
	return rule.ValidID(s)
}

// Time 解析 ULID 中携带的毫秒时间戳.
func Time(s string) (time.Time, bool) {
	id, err := ulid.Parse(s)
	if err != nil {
		return time.Time{}, false
	}

	return ulid.Time(id.Time()).UTC(), true
}
