package split

import (
	"math/big"

	"github.com/0xan000n/logos-service/internal/model"
	"github.com/0xan000n/logos-service/internal/policy"
)

// Pledge 参与分账计算的一笔出资
type Pledge struct {
	Backer   string
	Referrer string // 空串表示无推荐人
	Amount   int64
}

// SpeakerShare 演讲者及其份额
type SpeakerShare struct {
	Address string
	Fee     int64 // 按PercentageScale计
}

// Input 分账计算输入
type Input struct {
	Pot int64 // 分配时点的资金池全额

	ProposerFee     int64
	PlatformFee     int64
	CommunityFee    int64
	AffiliateFee    int64
	ProposerZeroFee bool // 免平台费提案人

	Proposer         string
	PlatformAddress  string
	CommunityAddress string

	Pledges  []Pledge
	Speakers []SpeakerShare
}

// Payout 单个收款方的应付金额
type Payout struct {
	Recipient string
	Role      model.PayoutRole
	Amount    int64
}

// Result 分账计算结果。各项金额之和恒等于Pot，
// 截断除法产生的尾差全部归入社区份额。
type Result struct {
	Payouts []Payout

	ReferrerTotal   int64
	ProposerAmount  int64
	PlatformAmount  int64
	CommunityAmount int64 // 含尾差
	SpeakerPool     int64
	Dust            int64
}

// Compute 计算分账。计算顺序和逐步截断除法是协议的一部分，
// 调整顺序会改变尾差的归属，必须保持：
//  1. 逐笔出资的推荐人份额
//  2. 扣除推荐人份额后的余池
//  3. 提案人、社区、平台份额
//  4. 剩余为演讲者资金池，按各自份额细分
//  5. 尾差归社区
func Compute(in Input) Result {
	var result Result

	// 1. 推荐人份额：每笔带推荐人的出资单独截断，按首次出现顺序归集
	referrerOrder := make([]string, 0)
	referrerAmounts := make(map[string]int64)
	for _, pledge := range in.Pledges {
		if pledge.Referrer == "" {
			continue
		}
		share := mulDiv(pledge.Amount, in.AffiliateFee, policy.PercentageScale)
		if _, seen := referrerAmounts[pledge.Referrer]; !seen {
			referrerOrder = append(referrerOrder, pledge.Referrer)
		}
		referrerAmounts[pledge.Referrer] += share
		result.ReferrerTotal += share
	}

	// 2. 扣除推荐人份额后的余池
	remaining := in.Pot - result.ReferrerTotal

	// 3. 提案人、社区、平台份额
	result.ProposerAmount = mulDiv(remaining, in.ProposerFee, policy.PercentageScale)
	result.CommunityAmount = mulDiv(remaining, in.CommunityFee, policy.PercentageScale)
	if !in.ProposerZeroFee {
		result.PlatformAmount = mulDiv(remaining, in.PlatformFee, policy.PercentageScale)
	}

	// 4. 演讲者资金池及细分
	result.SpeakerPool = remaining - result.ProposerAmount - result.CommunityAmount - result.PlatformAmount

	speakerPayouts := make([]Payout, 0, len(in.Speakers))
	var speakerSum int64
	for _, speaker := range in.Speakers {
		share := mulDiv(result.SpeakerPool, speaker.Fee, policy.PercentageScale)
		speakerSum += share
		speakerPayouts = append(speakerPayouts, Payout{
			Recipient: speaker.Address,
			Role:      model.PayoutRoleSpeaker,
			Amount:    share,
		})
	}

	// 5. 尾差归社区
	result.Dust = result.SpeakerPool - speakerSum
	result.CommunityAmount += result.Dust

	// 汇总应付清单，金额为0的收款方不生成记录
	for _, referrer := range referrerOrder {
		result.Payouts = appendPayout(result.Payouts, Payout{
			Recipient: referrer,
			Role:      model.PayoutRoleReferrer,
			Amount:    referrerAmounts[referrer],
		})
	}
	result.Payouts = appendPayout(result.Payouts, Payout{
		Recipient: in.Proposer,
		Role:      model.PayoutRoleProposer,
		Amount:    result.ProposerAmount,
	})
	result.Payouts = appendPayout(result.Payouts, Payout{
		Recipient: in.CommunityAddress,
		Role:      model.PayoutRoleCommunity,
		Amount:    result.CommunityAmount,
	})
	result.Payouts = appendPayout(result.Payouts, Payout{
		Recipient: in.PlatformAddress,
		Role:      model.PayoutRolePlatform,
		Amount:    result.PlatformAmount,
	})
	for _, payout := range speakerPayouts {
		result.Payouts = appendPayout(result.Payouts, payout)
	}

	return result
}

// Total 应付清单合计
func (r Result) Total() int64 {
	var total int64
	for _, payout := range r.Payouts {
		total += payout.Amount
	}
	return total
}

func appendPayout(payouts []Payout, payout Payout) []Payout {
	if payout.Amount == 0 {
		return payouts
	}
	return append(payouts, payout)
}

// mulDiv 计算 a*b/denominator，向零截断。
// 中间积可能超出int64范围，用big.Int运算。
func mulDiv(a, b, denominator int64) int64 {
	product := new(big.Int).Mul(big.NewInt(a), big.NewInt(b))
	quotient := product.Quo(product, big.NewInt(denominator))
	return quotient.Int64()
}
