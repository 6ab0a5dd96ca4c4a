package payment

import (
	"context"
)

// Rail 支付通道。Transfer把指定金额推给收款方，
// 失败时由调用方决定是否转入可认领余额兜底。
type Rail interface {
	Transfer(ctx context.Context, to string, amount int64) (txHash string, err error)
}

// RecordRail 纯记账通道，链下环境下转账只体现为分账记录
type RecordRail struct{}

// NewRecordRail 创建纯记账通道
func NewRecordRail() *RecordRail {
	return &RecordRail{}
}

// Transfer 记账通道总是成功，没有交易哈希
func (r *RecordRail) Transfer(_ context.Context, _ string, _ int64) (string, error) {
	return "", nil
}
