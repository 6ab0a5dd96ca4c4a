package minting

import (
	"context"
	"fmt"
	"sync"

	"github.com/0xan000n/logos-service/internal/logger"
	"github.com/0xan000n/logos-service/internal/model"
	"github.com/panjf2000/ants/v2"
	"gorm.io/gorm"
)

// Issuer 纪念凭证发放器。发放是旁路行为，
// 失败只记录并重试，不影响主流程。
type Issuer interface {
	Issue(ctx context.Context, recipient string, logoId int64, roleTag string) error
}

// RecordIssuer 仅落库的发放器，用于未接链的部署
type RecordIssuer struct{}

func (RecordIssuer) Issue(_ context.Context, _ string, _ int64, _ string) error {
	return nil
}

// Dispatcher 从数据库队列取出待发放请求，经协程池并发提交。
// 调度节奏由外部定时任务驱动。
type Dispatcher struct {
	db          *gorm.DB
	issuer      Issuer
	pool        *ants.Pool
	maxAttempts int
	ctx         context.Context
	cancel      context.CancelFunc
	wg          sync.WaitGroup
}

// NewDispatcher 创建发放调度器
func NewDispatcher(db *gorm.DB, issuer Issuer, workers, maxAttempts int) (*Dispatcher, error) {
	if workers <= 0 {
		workers = 4
	}
	if maxAttempts <= 0 {
		maxAttempts = 3
	}

	pool, err := ants.NewPool(workers)
	if err != nil {
		return nil, fmt.Errorf("failed to create mint worker pool: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Dispatcher{
		db:          db,
		issuer:      issuer,
		pool:        pool,
		maxAttempts: maxAttempts,
		ctx:         ctx,
		cancel:      cancel,
	}, nil
}

// Stop 停止调度并等待在途任务完成
func (d *Dispatcher) Stop() {
	logger.Info("Stopping mint dispatcher")
	d.cancel()
	d.wg.Wait()
	d.pool.Release()
}

// DispatchPending 取出一批待处理请求并提交到协程池
func (d *Dispatcher) DispatchPending() error {
	var requests []model.MintRequestModel
	if err := d.db.Where("status = ?", model.MintStatusPending).
		Order("id").Limit(100).
		Find(&requests).Error; err != nil {
		return fmt.Errorf("failed to fetch pending mint requests: %w", err)
	}
	if len(requests) == 0 {
		return nil
	}

	logger.Debug("Dispatching %d mint requests", len(requests))

	for _, request := range requests {
		request := request
		d.wg.Add(1)
		err := d.pool.Submit(func() {
			defer d.wg.Done()
			d.process(request)
		})
		if err != nil {
			d.wg.Done()
			return fmt.Errorf("failed to submit mint request %d: %w", request.Id, err)
		}
	}
	return nil
}

func (d *Dispatcher) process(request model.MintRequestModel) {
	err := d.issuer.Issue(d.ctx, request.Recipient, request.LogoId, request.RoleTag)
	if err != nil {
		attempts := request.Attempts + 1
		status := model.MintStatusPending
		if attempts >= d.maxAttempts {
			status = model.MintStatusFailed
			logger.Error("Mint request %d failed permanently after %d attempts: %v",
				request.Id, attempts, err)
		} else {
			logger.Warn("Mint request %d failed, attempt %d/%d: %v",
				request.Id, attempts, d.maxAttempts, err)
		}
		if dbErr := d.db.Model(&model.MintRequestModel{}).
			Where("id = ?", request.Id).
			Updates(map[string]interface{}{
				"status":     status,
				"attempts":   attempts,
				"last_error": err.Error(),
			}).Error; dbErr != nil {
			logger.Error("Failed to update mint request %d: %v", request.Id, dbErr)
		}
		return
	}

	if dbErr := d.db.Model(&model.MintRequestModel{}).
		Where("id = ?", request.Id).
		Updates(map[string]interface{}{
			"status":   model.MintStatusSent,
			"attempts": request.Attempts + 1,
		}).Error; dbErr != nil {
		logger.Error("Failed to update mint request %d: %v", request.Id, dbErr)
	}
}
