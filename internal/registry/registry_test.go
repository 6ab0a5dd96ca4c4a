package registry

import (
	"context"
	"errors"
	"testing"

	"github.com/0xan000n/logos-service/internal/clock"
	"github.com/0xan000n/logos-service/internal/database"
	"github.com/0xan000n/logos-service/internal/errs"
	"github.com/0xan000n/logos-service/internal/ledger"
	"github.com/0xan000n/logos-service/internal/model"
	"github.com/0xan000n/logos-service/internal/payment"
	"github.com/0xan000n/logos-service/internal/policy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	proposer  = "0x1111111111111111111111111111111111111111"
	platform  = "0x2222222222222222222222222222222222222222"
	community = "0x3333333333333333333333333333333333333333"
	speaker1  = "0x4444444444444444444444444444444444444444"
	speaker2  = "0x5555555555555555555555555555555555555555"
	backer1   = "0x00000000000000000000000000000000000000a1"
	referrer1 = "0x6666666666666666666666666666666666666666"
	stranger  = "0x9999999999999999999999999999999999999999"
)

type failRail struct{}

func (failRail) Transfer(_ context.Context, _ string, _ int64) (string, error) {
	return "", errors.New("rail unavailable")
}

type fixture struct {
	db     *gorm.DB
	clk    *clock.FixedClock
	reg    *Registry
	ledger *ledger.Ledger
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// 内存库绑定单连接，避免连接池各自打开空库
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.Migrate(db))

	record := model.FeePolicyModel{
		Id:               1,
		PlatformFee:      100_000,
		CommunityFee:     100_000,
		AffiliateFee:     50_000,
		RejectThreshold:  5_000,
		MaxDuration:      60,
		RejectionWindow:  7,
		PlatformAddress:  platform,
		CommunityAddress: community,
	}
	require.NoError(t, db.Create(&record).Error)

	clk := &clock.FixedClock{Unix: 1_700_000_000}
	rail := payment.NewRecordRail()
	return &fixture{
		db:     db,
		clk:    clk,
		reg:    NewRegistry(db, clk, rail),
		ledger: ledger.NewLedger(db, clk, rail),
	}
}

func (f *fixture) createLogo(t *testing.T) *model.LogoModel {
	t.Helper()
	logo, err := f.reg.CreateLogo(proposer, 100_000, "test logo", 40)
	require.NoError(t, err)
	return logo
}

func (f *fixture) pause(t *testing.T) {
	t.Helper()
	require.NoError(t, f.db.Model(&model.FeePolicyModel{}).
		Where("id = ?", 1).Update("paused", true).Error)
}

func TestCreateLogo(t *testing.T) {
	f := newFixture(t)

	logo := f.createLogo(t)
	assert.Equal(t, "test logo", logo.Title)
	assert.Equal(t, proposer, logo.Proposer)
	assert.Equal(t, int64(100_000), logo.ProposerFee)
	assert.Equal(t, DefaultMinimumPledge, logo.MinimumPledge)
	assert.True(t, logo.IsCrowdfunding)
	assert.Equal(t, f.clk.Now(), logo.CrowdfundStartAt)
	assert.Equal(t, f.clk.Now()+40*86400, logo.CrowdfundEndAt)
	assert.Equal(t, int64(0), logo.ScheduledAt)

	// 提案人的纪念凭证请求已排队
	var requests []model.MintRequestModel
	require.NoError(t, f.db.Where("logo_id = ?", logo.Id).Find(&requests).Error)
	require.Len(t, requests, 1)
	assert.Equal(t, proposer, requests[0].Recipient)
	assert.Equal(t, "proposer", requests[0].RoleTag)
}

func TestCreateLogoGuards(t *testing.T) {
	f := newFixture(t)

	_, err := f.reg.CreateLogo(proposer, 100_000, "", 40)
	assert.ErrorIs(t, err, errs.ErrEmptyString)

	_, err = f.reg.CreateLogo(proposer, 100_000, "test logo", 61)
	assert.ErrorIs(t, err, errs.ErrCrowdfundDurationExceeded)

	f.pause(t)
	_, err = f.reg.CreateLogo(proposer, 100_000, "test logo", 40)
	assert.ErrorIs(t, err, errs.ErrEnforcedPause)
}

func TestCreateLogoFeeBoundary(t *testing.T) {
	f := newFixture(t)

	// 普通提案人上限 = 总刻度 − 社区费 − 平台费
	feeCap := policy.PercentageScale - 100_000 - 100_000
	_, err := f.reg.CreateLogo(proposer, feeCap, "test logo", 40)
	require.NoError(t, err)
	_, err = f.reg.CreateLogo(proposer, feeCap+1, "test logo", 40)
	assert.ErrorIs(t, err, errs.ErrFeeExceeded)

	// 免平台费提案人上限 = 总刻度 − 社区费
	require.NoError(t, f.db.Create(&model.ZeroFeeProposerModel{
		Address: stranger, Enabled: true,
	}).Error)
	zeroFeeCap := policy.PercentageScale - 100_000
	_, err = f.reg.CreateLogo(stranger, zeroFeeCap, "test logo", 40)
	require.NoError(t, err)
	_, err = f.reg.CreateLogo(stranger, zeroFeeCap+1, "test logo", 40)
	assert.ErrorIs(t, err, errs.ErrFeeExceeded)
}

func TestToggleCrowdfund(t *testing.T) {
	f := newFixture(t)
	logo := f.createLogo(t)

	assert.ErrorIs(t, f.reg.ToggleCrowdfund(stranger, logo.Id), errs.ErrUnauthorized)

	require.NoError(t, f.reg.ToggleCrowdfund(proposer, logo.Id))
	got, err := f.reg.GetLogo(logo.Id)
	require.NoError(t, err)
	assert.False(t, got.IsCrowdfunding)
}

func TestToggleCrowdfundBlockedAfterSchedule(t *testing.T) {
	f := newFixture(t)
	logo := f.createLogo(t)

	require.NoError(t, f.reg.SetDate(proposer, logo.Id, f.clk.Now()+10*86400))
	assert.ErrorIs(t, f.reg.ToggleCrowdfund(proposer, logo.Id), errs.ErrUnauthorized)
}

func TestToggleCrowdfundBlockedAfterDeadline(t *testing.T) {
	f := newFixture(t)
	logo := f.createLogo(t)

	f.clk.Advance(41 * 86400)
	assert.ErrorIs(t, f.reg.ToggleCrowdfund(proposer, logo.Id), errs.ErrCrowdfundEnded)
}

func TestSetMinimumPledge(t *testing.T) {
	f := newFixture(t)
	logo := f.createLogo(t)

	assert.ErrorIs(t, f.reg.SetMinimumPledge(stranger, logo.Id, 1), errs.ErrUnauthorized)
	assert.ErrorIs(t, f.reg.SetMinimumPledge(proposer, logo.Id, 0), errs.ErrNotZero)
	assert.ErrorIs(t, f.reg.SetMinimumPledge(proposer, logo.Id, -1), errs.ErrNotZero)

	require.NoError(t, f.reg.SetMinimumPledge(proposer, logo.Id, 42))
	got, err := f.reg.GetLogo(logo.Id)
	require.NoError(t, err)
	assert.Equal(t, int64(42), got.MinimumPledge)

	// 众筹结束后不可调整
	require.NoError(t, f.reg.ToggleCrowdfund(proposer, logo.Id))
	assert.ErrorIs(t, f.reg.SetMinimumPledge(proposer, logo.Id, 1), errs.ErrLogoNotCrowdfunding)
}

func TestSetSpeakers(t *testing.T) {
	f := newFixture(t)
	logo := f.createLogo(t)

	addrs := []string{speaker1, speaker2}
	fees := []int64{600_000, 400_000}
	providers := []string{"x", "youtube"}
	handles := []string{"@one", "@two"}

	require.NoError(t, f.reg.SetSpeakers(proposer, logo.Id, addrs, fees, providers, handles))

	speakers, err := f.reg.GetSpeakersForLogo(logo.Id)
	require.NoError(t, err)
	require.Len(t, speakers, 2)
	assert.Equal(t, int64(600_000), speakers[0].Fee)
	assert.Equal(t, model.SpeakerStatusPending, speakers[0].Status)

	// 再次设置整体覆盖
	require.NoError(t, f.reg.SetSpeakers(proposer, logo.Id,
		[]string{speaker2}, []int64{1_000_000}, []string{"x"}, []string{"@two"}))
	speakers, err = f.reg.GetSpeakersForLogo(logo.Id)
	require.NoError(t, err)
	require.Len(t, speakers, 1)
}

func TestSetSpeakersGuards(t *testing.T) {
	f := newFixture(t)
	logo := f.createLogo(t)

	one := []string{speaker1}
	provider := []string{"x"}
	handle := []string{"@one"}

	assert.ErrorIs(t, f.reg.SetSpeakers(stranger, logo.Id, one, []int64{1_000_000}, provider, handle),
		errs.ErrUnauthorized)
	assert.ErrorIs(t, f.reg.SetSpeakers(proposer, logo.Id, nil, nil, nil, nil),
		errs.ErrInvalidSpeakerNumber)
	assert.ErrorIs(t, f.reg.SetSpeakers(proposer, logo.Id, one, []int64{1, 2}, provider, handle),
		errs.ErrInvalidArrayArguments)

	// 份额之和必须恰好等于总刻度
	assert.ErrorIs(t, f.reg.SetSpeakers(proposer, logo.Id, one, []int64{policy.PercentageScale - 1}, provider, handle),
		errs.ErrFeeSumNotMatch)
	assert.ErrorIs(t, f.reg.SetSpeakers(proposer, logo.Id, one, []int64{policy.PercentageScale + 1}, provider, handle),
		errs.ErrFeeSumNotMatch)
	require.NoError(t, f.reg.SetSpeakers(proposer, logo.Id, one, []int64{policy.PercentageScale}, provider, handle))
}

func TestSetSpeakerStatus(t *testing.T) {
	f := newFixture(t)
	logo := f.createLogo(t)

	require.NoError(t, f.reg.SetSpeakers(proposer, logo.Id,
		[]string{speaker1}, []int64{1_000_000}, []string{"x"}, []string{"@one"}))

	// 哨兵状态不可设置
	assert.ErrorIs(t, f.reg.SetSpeakerStatus(speaker1, logo.Id, model.SpeakerStatusPending),
		errs.ErrInvalidSpeakerStatus)
	// 非名单内地址
	assert.ErrorIs(t, f.reg.SetSpeakerStatus(stranger, logo.Id, model.SpeakerStatusAccepted),
		errs.ErrUnauthorized)

	require.NoError(t, f.reg.SetSpeakerStatus(speaker1, logo.Id, model.SpeakerStatusAccepted))
	speakers, err := f.reg.GetSpeakersForLogo(logo.Id)
	require.NoError(t, err)
	assert.Equal(t, model.SpeakerStatusAccepted, speakers[0].Status)
}

func TestSetDate(t *testing.T) {
	f := newFixture(t)
	logo := f.createLogo(t)

	assert.ErrorIs(t, f.reg.SetDate(stranger, logo.Id, f.clk.Now()+86400), errs.ErrUnauthorized)
	assert.ErrorIs(t, f.reg.SetDate(proposer, logo.Id, f.clk.Now()), errs.ErrInvalidScheduleTime)

	scheduledAt := f.clk.Now() + 10*86400
	require.NoError(t, f.reg.SetDate(proposer, logo.Id, scheduledAt))

	got, err := f.reg.GetLogo(logo.Id)
	require.NoError(t, err)
	assert.Equal(t, scheduledAt, got.ScheduledAt)
	// 设定日期同时结束众筹
	assert.False(t, got.IsCrowdfunding)
}

func TestSetMediaAsset(t *testing.T) {
	f := newFixture(t)
	logo := f.createLogo(t)

	// 未排期不可上传
	assert.ErrorIs(t, f.reg.SetMediaAsset(proposer, logo.Id, "ipfs://media"), errs.ErrLogoNotScheduled)

	require.NoError(t, f.reg.SetDate(proposer, logo.Id, f.clk.Now()+10*86400))
	require.NoError(t, f.reg.SetMediaAsset(proposer, logo.Id, "ipfs://media"))

	got, err := f.reg.GetLogo(logo.Id)
	require.NoError(t, err)
	assert.True(t, got.IsUploaded)
	assert.Equal(t, "ipfs://media", got.MediaAssetURL)
	// 反对窗口 = 上传时间 + 窗口天数
	assert.Equal(t, f.clk.Now()+7*86400, got.RejectionDeadline)
}

func TestSetDateBlockedAfterUpload(t *testing.T) {
	f := newFixture(t)
	logo := f.createLogo(t)

	require.NoError(t, f.reg.SetDate(proposer, logo.Id, f.clk.Now()+10*86400))
	require.NoError(t, f.reg.SetMediaAsset(proposer, logo.Id, "ipfs://media"))

	assert.ErrorIs(t, f.reg.SetDate(proposer, logo.Id, f.clk.Now()+20*86400), errs.ErrLogoUploaded)
}

func TestRefundByProposer(t *testing.T) {
	f := newFixture(t)
	logo := f.createLogo(t)

	require.NoError(t, f.reg.Refund(proposer, logo.Id))

	got, err := f.reg.GetLogo(logo.Id)
	require.NoError(t, err)
	assert.True(t, got.IsRefunded)

	events, err := f.reg.GetEventsForLogo(logo.Id)
	require.NoError(t, err)
	var refundEvent *model.EventModel
	for i := range events {
		if events[i].EventType == model.EventRefundInitiated {
			refundEvent = &events[i]
		}
	}
	require.NotNil(t, refundEvent)
	assert.Contains(t, refundEvent.Data, `"condition":1`)
}

func TestRefundStopsCrowdfunding(t *testing.T) {
	f := newFixture(t)
	logo := f.createLogo(t)

	require.NoError(t, f.ledger.Crowdfund(logo.Id, backer1, "", 100_000_000_000_000))
	require.NoError(t, f.reg.Refund(proposer, logo.Id))

	got, err := f.reg.GetLogo(logo.Id)
	require.NoError(t, err)
	assert.True(t, got.IsRefunded)
	assert.False(t, got.IsCrowdfunding)

	// 已退款的Logo不再接受新出资，资金池不变
	err = f.ledger.Crowdfund(logo.Id, backer1, "", 100_000_000_000_000)
	assert.ErrorIs(t, err, errs.ErrLogoNotCrowdfunding)

	got, err = f.reg.GetLogo(logo.Id)
	require.NoError(t, err)
	assert.Equal(t, int64(100_000_000_000_000), got.Rewards)
}

func TestRefundWithoutConditionRejected(t *testing.T) {
	f := newFixture(t)
	logo := f.createLogo(t)

	assert.ErrorIs(t, f.reg.Refund(stranger, logo.Id), errs.ErrUnauthorized)
}

func TestRefundPrecedence(t *testing.T) {
	f := newFixture(t)
	logo := f.createLogo(t)

	// 同时满足众筹超时和反对票阈值，事件按优先级记众筹超时
	require.NoError(t, f.ledger.Crowdfund(logo.Id, backer1, "", 100_000_000_000_000))
	require.NoError(t, f.ledger.RejectFunds(logo.Id, backer1))
	f.clk.Advance(41 * 86400)

	require.NoError(t, f.reg.Refund(stranger, logo.Id))

	events, err := f.reg.GetEventsForLogo(logo.Id)
	require.NoError(t, err)
	var refundEvent *model.EventModel
	for i := range events {
		if events[i].EventType == model.EventRefundInitiated {
			refundEvent = &events[i]
		}
	}
	require.NotNil(t, refundEvent)
	assert.Contains(t, refundEvent.Data, `"condition":2`)
	assert.Contains(t, refundEvent.Data, `"threshold_reached":true`)
}

func TestRefundByThreshold(t *testing.T) {
	f := newFixture(t)
	logo := f.createLogo(t)

	// 两笔出资，一半投反对票，达到50%阈值
	require.NoError(t, f.ledger.Crowdfund(logo.Id, backer1, "", 100_000_000_000_000))
	require.NoError(t, f.ledger.Crowdfund(logo.Id, stranger, "", 100_000_000_000_000))
	require.NoError(t, f.ledger.RejectFunds(logo.Id, backer1))

	require.NoError(t, f.reg.Refund(backer1, logo.Id))

	events, err := f.reg.GetEventsForLogo(logo.Id)
	require.NoError(t, err)
	var refundEvent *model.EventModel
	for i := range events {
		if events[i].EventType == model.EventRefundInitiated {
			refundEvent = &events[i]
		}
	}
	require.NotNil(t, refundEvent)
	assert.Contains(t, refundEvent.Data, `"condition":4`)
}

func TestRefundNoShow(t *testing.T) {
	f := newFixture(t)
	logo := f.createLogo(t)

	require.NoError(t, f.reg.SetDate(proposer, logo.Id, f.clk.Now()+10*86400))
	// 举办时间过后反对窗口也过，媒体未上传
	f.clk.Advance(10*86400 + 7*86400 + 1)

	require.NoError(t, f.reg.Refund(stranger, logo.Id))

	events, err := f.reg.GetEventsForLogo(logo.Id)
	require.NoError(t, err)
	var refundEvent *model.EventModel
	for i := range events {
		if events[i].EventType == model.EventRefundInitiated {
			refundEvent = &events[i]
		}
	}
	require.NotNil(t, refundEvent)
	assert.Contains(t, refundEvent.Data, `"no_show":true`)
}

func TestTerminality(t *testing.T) {
	f := newFixture(t)
	logo := f.createLogo(t)

	require.NoError(t, f.reg.Refund(proposer, logo.Id))

	// 终态后一切变更被拒且状态不变
	assert.ErrorIs(t, f.reg.Refund(proposer, logo.Id), errs.ErrLogoRefunded)
	assert.ErrorIs(t, f.reg.DistributeRewards(stranger, logo.Id), errs.ErrLogoRefunded)
	assert.ErrorIs(t, f.reg.SetDate(proposer, logo.Id, f.clk.Now()+86400), errs.ErrLogoRefunded)
	assert.ErrorIs(t, f.reg.SetMediaAsset(proposer, logo.Id, "ipfs://media"), errs.ErrLogoRefunded)

	got, err := f.reg.GetLogo(logo.Id)
	require.NoError(t, err)
	assert.True(t, got.IsRefunded)
	assert.False(t, got.IsDistributed)
}

func TestDistributeRewardsGuards(t *testing.T) {
	f := newFixture(t)
	logo := f.createLogo(t)

	assert.ErrorIs(t, f.reg.DistributeRewards(stranger, logo.Id), errs.ErrLogoNotUploaded)

	require.NoError(t, f.reg.SetDate(proposer, logo.Id, f.clk.Now()+10*86400))
	require.NoError(t, f.reg.SetMediaAsset(proposer, logo.Id, "ipfs://media"))
	assert.ErrorIs(t, f.reg.DistributeRewards(stranger, logo.Id), errs.ErrRejectionDeadlineNotPassed)
}

func TestDistributeRewards(t *testing.T) {
	f := newFixture(t)
	logo := f.createLogo(t)

	require.NoError(t, f.reg.SetSpeakers(proposer, logo.Id,
		[]string{speaker1, speaker2}, []int64{600_000, 400_000},
		[]string{"x", "youtube"}, []string{"@one", "@two"}))
	require.NoError(t, f.ledger.Crowdfund(logo.Id, backer1, referrer1, 100_000_000_000_000))
	require.NoError(t, f.ledger.Crowdfund(logo.Id, stranger, referrer1, 900_000_000_000_000))

	require.NoError(t, f.reg.SetDate(proposer, logo.Id, f.clk.Now()+10*86400))
	require.NoError(t, f.reg.SetMediaAsset(proposer, logo.Id, "ipfs://media"))
	f.clk.Advance(7*86400 + 1)

	require.NoError(t, f.reg.DistributeRewards(stranger, logo.Id))

	got, err := f.reg.GetLogo(logo.Id)
	require.NoError(t, err)
	assert.True(t, got.IsDistributed)
	assert.Equal(t, int64(0), got.Rewards)
	assert.NotEmpty(t, got.SpeakerSplit)
	assert.NotEmpty(t, got.AffiliateSplit)

	// 全部分账记录之和等于分配时点的资金池，且全部推送成功
	var records []model.PayoutRecordModel
	require.NoError(t, f.db.Where("logo_id = ?", logo.Id).Find(&records).Error)
	var total int64
	for _, record := range records {
		total += record.Amount
		assert.Equal(t, model.PayoutStatusSuccess, record.Status)
	}
	assert.Equal(t, int64(1_000_000_000_000_000), total)

	// 演讲者和出资人的纪念凭证请求已排队
	var requests []model.MintRequestModel
	require.NoError(t, f.db.Where("logo_id = ? AND role_tag = ?", logo.Id, "speaker").
		Find(&requests).Error)
	assert.Len(t, requests, 2)
	require.NoError(t, f.db.Where("logo_id = ? AND role_tag = ?", logo.Id, "backer").
		Find(&requests).Error)
	assert.Len(t, requests, 2)

	// 分配后再次分配或退款被拒
	assert.ErrorIs(t, f.reg.DistributeRewards(stranger, logo.Id), errs.ErrLogoDistributed)
	assert.ErrorIs(t, f.reg.Refund(proposer, logo.Id), errs.ErrLogoDistributed)
}

func TestDistributeRewardsRailFailure(t *testing.T) {
	f := newFixture(t)
	reg := NewRegistry(f.db, f.clk, failRail{})

	logo, err := reg.CreateLogo(proposer, 100_000, "test logo", 40)
	require.NoError(t, err)
	require.NoError(t, reg.SetSpeakers(proposer, logo.Id,
		[]string{speaker1, speaker2}, []int64{600_000, 400_000},
		[]string{"x", "youtube"}, []string{"@one", "@two"}))
	require.NoError(t, f.ledger.Crowdfund(logo.Id, backer1, referrer1, 1_000_000_000_000_000))

	require.NoError(t, reg.SetDate(proposer, logo.Id, f.clk.Now()+10*86400))
	require.NoError(t, reg.SetMediaAsset(proposer, logo.Id, "ipfs://media"))
	f.clk.Advance(7*86400 + 1)

	// 推送通道不可用也不阻断分配，全部份额转入可认领余额
	require.NoError(t, reg.DistributeRewards(stranger, logo.Id))

	got, err := reg.GetLogo(logo.Id)
	require.NoError(t, err)
	assert.True(t, got.IsDistributed)
	assert.Equal(t, int64(0), got.Rewards)

	var records []model.PayoutRecordModel
	require.NoError(t, f.db.Where("logo_id = ?", logo.Id).Find(&records).Error)
	require.NotEmpty(t, records)
	for _, record := range records {
		assert.Equal(t, model.PayoutStatusClaimable, record.Status)
	}

	// 可认领余额之和等于分配时点的资金池
	var balances []model.ClaimableBalanceModel
	require.NoError(t, f.db.Find(&balances).Error)
	var total int64
	for _, balance := range balances {
		total += balance.Amount
	}
	assert.Equal(t, int64(1_000_000_000_000_000), total)
}

// 创建40天众筹，出资1e14后排期但从未上传媒体，
// 窗口过后进入退款，出资人取回全额本金。
func TestNoShowRefundScenario(t *testing.T) {
	f := newFixture(t)
	logo := f.createLogo(t)

	require.NoError(t, f.ledger.Crowdfund(logo.Id, backer1, referrer1, 100_000_000_000_000))
	require.NoError(t, f.reg.SetDate(proposer, logo.Id, f.clk.Now()+10*86400))
	f.clk.Advance(10*86400 + 7*86400 + 1)

	require.NoError(t, f.reg.Refund(stranger, logo.Id))

	amount, err := f.ledger.WithdrawFunds(logo.Id, backer1)
	require.NoError(t, err)
	assert.Equal(t, int64(100_000_000_000_000), amount)

	got, err := f.reg.GetLogo(logo.Id)
	require.NoError(t, err)
	assert.Equal(t, int64(0), got.Rewards)
}

func TestPauseGate(t *testing.T) {
	f := newFixture(t)
	logo := f.createLogo(t)
	f.pause(t)

	assert.ErrorIs(t, f.reg.ToggleCrowdfund(proposer, logo.Id), errs.ErrEnforcedPause)
	assert.ErrorIs(t, f.reg.SetMinimumPledge(proposer, logo.Id, 1), errs.ErrEnforcedPause)
	assert.ErrorIs(t, f.reg.SetDate(proposer, logo.Id, f.clk.Now()+86400), errs.ErrEnforcedPause)
	assert.ErrorIs(t, f.reg.SetMediaAsset(proposer, logo.Id, "ipfs://media"), errs.ErrEnforcedPause)
	assert.ErrorIs(t, f.reg.Refund(proposer, logo.Id), errs.ErrEnforcedPause)
	assert.ErrorIs(t, f.reg.DistributeRewards(proposer, logo.Id), errs.ErrEnforcedPause)

	// 恢复后行为与暂停前一致
	require.NoError(t, f.db.Model(&model.FeePolicyModel{}).
		Where("id = ?", 1).Update("paused", false).Error)
	require.NoError(t, f.reg.SetMinimumPledge(proposer, logo.Id, 1))
}

func TestInvalidLogoId(t *testing.T) {
	f := newFixture(t)

	_, err := f.reg.GetLogo(999)
	assert.ErrorIs(t, err, errs.ErrInvalidLogoId)
	assert.ErrorIs(t, f.reg.Refund(proposer, 999), errs.ErrInvalidLogoId)
	assert.ErrorIs(t, f.reg.DistributeRewards(proposer, 999), errs.ErrInvalidLogoId)
}
