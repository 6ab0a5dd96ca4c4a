package clock

import "time"

// Clock 注入式时钟，所有截止时间判断都基于它返回的unix秒
type Clock interface {
	Now() int64
}

// SystemClock 系统时钟
type SystemClock struct{}

func (SystemClock) Now() int64 {
	return time.Now().Unix()
}

// FixedClock 固定时钟，测试用
type FixedClock struct {
	Unix int64
}

func (c *FixedClock) Now() int64 {
	return c.Unix
}

// Advance 前进指定秒数
func (c *FixedClock) Advance(seconds int64) {
	c.Unix += seconds
}
