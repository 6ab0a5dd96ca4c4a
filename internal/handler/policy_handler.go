package handler

import (
	"net/http"

	"github.com/0xan000n/logos-service/internal/policy"
	"github.com/gin-gonic/gin"
)

type PolicyHandler struct {
	policy *policy.Policy
}

func NewPolicyHandler(p *policy.Policy) *PolicyHandler {
	return &PolicyHandler{policy: p}
}

// GetPolicy 获取当前费率配置
func (h *PolicyHandler) GetPolicy(c *gin.Context) {
	snapshot, err := h.policy.Load()
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"policy": snapshot})
}

// UpdatePolicy 更新费率配置，仅提交的字段生效
func (h *PolicyHandler) UpdatePolicy(c *gin.Context) {
	caller, ok := callerAddress(c)
	if !ok {
		return
	}

	var req struct {
		PlatformFee      *int64  `json:"platform_fee"`
		CommunityFee     *int64  `json:"community_fee"`
		AffiliateFee     *int64  `json:"affiliate_fee"`
		RejectThreshold  *int64  `json:"reject_threshold"`
		MaxDuration      *int64  `json:"max_duration"`
		RejectionWindow  *int64  `json:"rejection_window"`
		PlatformAddress  *string `json:"platform_address"`
		CommunityAddress *string `json:"community_address"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	// 有序套用，单个字段失败则中断返回
	type step func() error
	var steps []step
	if req.PlatformFee != nil {
		steps = append(steps, func() error { return h.policy.SetPlatformFee(caller, *req.PlatformFee) })
	}
	if req.CommunityFee != nil {
		steps = append(steps, func() error { return h.policy.SetCommunityFee(caller, *req.CommunityFee) })
	}
	if req.AffiliateFee != nil {
		steps = append(steps, func() error { return h.policy.SetAffiliateFee(caller, *req.AffiliateFee) })
	}
	if req.RejectThreshold != nil {
		steps = append(steps, func() error { return h.policy.SetRejectThreshold(caller, *req.RejectThreshold) })
	}
	if req.MaxDuration != nil {
		steps = append(steps, func() error { return h.policy.SetMaxDuration(caller, *req.MaxDuration) })
	}
	if req.RejectionWindow != nil {
		steps = append(steps, func() error { return h.policy.SetRejectionWindow(caller, *req.RejectionWindow) })
	}
	if req.PlatformAddress != nil {
		steps = append(steps, func() error { return h.policy.SetPlatformAddress(caller, *req.PlatformAddress) })
	}
	if req.CommunityAddress != nil {
		steps = append(steps, func() error { return h.policy.SetCommunityAddress(caller, *req.CommunityAddress) })
	}
	if len(steps) == 0 {
		ErrorResponse(c, http.StatusBadRequest, "no fields to update")
		return
	}

	for _, apply := range steps {
		if err := apply(); err != nil {
			WriteError(c, err)
			return
		}
	}

	SuccessResponse(c, http.StatusOK, "policy updated", nil)
}

// SetZeroFeeProposers 设置免平台费提案人名单
func (h *PolicyHandler) SetZeroFeeProposers(c *gin.Context) {
	caller, ok := callerAddress(c)
	if !ok {
		return
	}

	var req struct {
		Addresses []string `json:"addresses" binding:"required"`
		Flags     []bool   `json:"flags"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.policy.SetZeroFeeProposers(caller, req.Addresses, req.Flags); err != nil {
		WriteError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "zero fee proposers updated", nil)
}

// Pause 全局暂停
func (h *PolicyHandler) Pause(c *gin.Context) {
	caller, ok := callerAddress(c)
	if !ok {
		return
	}

	if err := h.policy.PauseOrUnpause(caller, true); err != nil {
		WriteError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "paused", nil)
}

// Unpause 解除暂停
func (h *PolicyHandler) Unpause(c *gin.Context) {
	caller, ok := callerAddress(c)
	if !ok {
		return
	}

	if err := h.policy.PauseOrUnpause(caller, false); err != nil {
		WriteError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "unpaused", nil)
}
