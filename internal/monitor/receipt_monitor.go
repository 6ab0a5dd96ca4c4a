package monitor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/0xan000n/logos-service/internal/ledger"
	"github.com/0xan000n/logos-service/internal/logger"
	"github.com/0xan000n/logos-service/internal/model"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/panjf2000/ants/v2"
	"gorm.io/gorm"
)

// ReceiptFetcher 回执查询接口，由链客户端实现
type ReceiptFetcher interface {
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
}

// ReceiptMonitor 分账回执监控器。
// 已提交的链上转账需要用回执确认最终结果，
// 回执失败的份额补记到收款方的可认领余额。
type ReceiptMonitor struct {
	db      *gorm.DB
	fetcher ReceiptFetcher
	pool    *ants.Pool
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	mu      sync.Mutex // 单轮扫描互斥
}

// NewReceiptMonitor 创建回执监控器
func NewReceiptMonitor(db *gorm.DB, fetcher ReceiptFetcher, workers int) (*ReceiptMonitor, error) {
	if workers <= 0 {
		workers = 4
	}

	pool, err := ants.NewPool(workers)
	if err != nil {
		return nil, fmt.Errorf("failed to create receipt worker pool: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &ReceiptMonitor{
		db:      db,
		fetcher: fetcher,
		pool:    pool,
		ctx:     ctx,
		cancel:  cancel,
	}, nil
}

// Start 启动监控循环
func (m *ReceiptMonitor) Start(interval time.Duration) {
	if interval <= 0 {
		interval = time.Second * 60
	}
	logger.Info("Starting payout receipt monitor")
	go m.loop(interval)
}

// Stop 停止监控并等待在途查询完成
func (m *ReceiptMonitor) Stop() {
	logger.Info("Stopping payout receipt monitor")
	m.cancel()
	m.wg.Wait()
	m.pool.Release()
}

func (m *ReceiptMonitor) loop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-m.ctx.Done():
			logger.Info("Receipt monitor stopped")
			return
		case <-ticker.C:
			if err := m.Sweep(); err != nil {
				logger.Error("Receipt sweep failed: %v", err)
			}
		}
	}
}

// Sweep 扫描一批待确认的分账记录并并发查询回执
func (m *ReceiptMonitor) Sweep() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var records []model.PayoutRecordModel
	if err := m.db.Where("status = ? AND tx_hash <> ''", model.PayoutStatusSuccess).
		Order("id").Limit(200).
		Find(&records).Error; err != nil {
		return fmt.Errorf("failed to fetch unconfirmed payout records: %w", err)
	}
	if len(records) == 0 {
		return nil
	}

	logger.Debug("Checking receipts for %d payout records", len(records))

	for _, record := range records {
		record := record
		m.wg.Add(1)
		err := m.pool.Submit(func() {
			defer m.wg.Done()
			m.checkReceipt(record)
		})
		if err != nil {
			m.wg.Done()
			return fmt.Errorf("failed to submit receipt check for record %d: %w", record.Id, err)
		}
	}

	m.wg.Wait()
	return nil
}

func (m *ReceiptMonitor) checkReceipt(record model.PayoutRecordModel) {
	ctx, cancel := context.WithTimeout(m.ctx, time.Second*10)
	defer cancel()

	receipt, err := m.fetcher.TransactionReceipt(ctx, common.HexToHash(record.TxHash))
	if err != nil {
		// 交易尚未上链，留到下一轮
		if errors.Is(err, ethereum.NotFound) {
			return
		}
		logger.Error("Failed to fetch receipt for payout record %d: %v", record.Id, err)
		return
	}

	if receipt.Status == types.ReceiptStatusSuccessful {
		if err := m.db.Model(&model.PayoutRecordModel{}).
			Where("id = ?", record.Id).
			Update("status", model.PayoutStatusConfirmed).Error; err != nil {
			logger.Error("Failed to confirm payout record %d: %v", record.Id, err)
		}
		return
	}

	// 回执失败，份额补记到可认领余额
	logger.Warn("Payout record %d reverted on chain, crediting claimable balance for %s",
		record.Id, record.Recipient)
	err = m.db.Transaction(func(tx *gorm.DB) error {
		if err := ledger.Credit(tx, record.Recipient, record.Amount); err != nil {
			return err
		}
		return tx.Model(&model.PayoutRecordModel{}).
			Where("id = ?", record.Id).
			Update("status", model.PayoutStatusReverted).Error
	})
	if err != nil {
		logger.Error("Failed to handle reverted payout record %d: %v", record.Id, err)
	}
}
