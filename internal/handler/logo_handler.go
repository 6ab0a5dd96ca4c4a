package handler

import (
	"net/http"
	"strconv"

	"github.com/0xan000n/logos-service/internal/model"
	"github.com/0xan000n/logos-service/internal/registry"
	"github.com/gin-gonic/gin"
)

type LogoHandler struct {
	registry *registry.Registry
}

func NewLogoHandler(reg *registry.Registry) *LogoHandler {
	return &LogoHandler{registry: reg}
}

// CreateLogo 创建Logo
func (h *LogoHandler) CreateLogo(c *gin.Context) {
	caller, ok := callerAddress(c)
	if !ok {
		return
	}

	var req struct {
		Title        string `json:"title" binding:"required"`
		ProposerFee  int64  `json:"proposer_fee"`
		DurationDays int64  `json:"duration_days"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	logo, err := h.registry.CreateLogo(caller, req.ProposerFee, req.Title, req.DurationDays)
	if err != nil {
		WriteError(c, err)
		return
	}

	SuccessResponse(c, http.StatusCreated, "logo created", logo)
}

// GetLogos 获取Logo列表
func (h *LogoHandler) GetLogos(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))

	logos, total, err := h.registry.GetLogos(page, pageSize)
	if err != nil {
		WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"logos":     logos,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	})
}

// GetLogo 获取单个Logo详情
func (h *LogoHandler) GetLogo(c *gin.Context) {
	id, ok := logoId(c)
	if !ok {
		return
	}

	logo, err := h.registry.GetLogo(id)
	if err != nil {
		WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"logo": logo})
}

// ToggleCrowdfund 结束众筹
func (h *LogoHandler) ToggleCrowdfund(c *gin.Context) {
	caller, ok := callerAddress(c)
	if !ok {
		return
	}
	id, ok := logoId(c)
	if !ok {
		return
	}

	if err := h.registry.ToggleCrowdfund(caller, id); err != nil {
		WriteError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "crowdfund toggled", nil)
}

// SetMinimumPledge 设置最低出资额
func (h *LogoHandler) SetMinimumPledge(c *gin.Context) {
	caller, ok := callerAddress(c)
	if !ok {
		return
	}
	id, ok := logoId(c)
	if !ok {
		return
	}

	var req struct {
		MinimumPledge int64 `json:"minimum_pledge"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.registry.SetMinimumPledge(caller, id, req.MinimumPledge); err != nil {
		WriteError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "minimum pledge updated", nil)
}

// SetSpeakers 设置演讲者名单
func (h *LogoHandler) SetSpeakers(c *gin.Context) {
	caller, ok := callerAddress(c)
	if !ok {
		return
	}
	id, ok := logoId(c)
	if !ok {
		return
	}

	var req struct {
		Addresses []string `json:"addresses" binding:"required"`
		Fees      []int64  `json:"fees"`
		Providers []string `json:"providers"`
		Handles   []string `json:"handles"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.registry.SetSpeakers(caller, id, req.Addresses, req.Fees, req.Providers, req.Handles); err != nil {
		WriteError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "speakers updated", nil)
}

// SetSpeakerStatus 演讲者设置接受/拒绝状态
func (h *LogoHandler) SetSpeakerStatus(c *gin.Context) {
	caller, ok := callerAddress(c)
	if !ok {
		return
	}
	id, ok := logoId(c)
	if !ok {
		return
	}

	var req struct {
		Status int `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.registry.SetSpeakerStatus(caller, id, model.SpeakerStatus(req.Status)); err != nil {
		WriteError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "speaker status updated", nil)
}

// SetDate 设定举办时间
func (h *LogoHandler) SetDate(c *gin.Context) {
	caller, ok := callerAddress(c)
	if !ok {
		return
	}
	id, ok := logoId(c)
	if !ok {
		return
	}

	var req struct {
		ScheduledAt int64 `json:"scheduled_at"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.registry.SetDate(caller, id, req.ScheduledAt); err != nil {
		WriteError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "date set", nil)
}

// SetMediaAsset 上传媒体资源
func (h *LogoHandler) SetMediaAsset(c *gin.Context) {
	caller, ok := callerAddress(c)
	if !ok {
		return
	}
	id, ok := logoId(c)
	if !ok {
		return
	}

	var req struct {
		MediaAssetURL string `json:"media_asset_url" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.registry.SetMediaAsset(caller, id, req.MediaAssetURL); err != nil {
		WriteError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "media asset set", nil)
}

// Refund 发起退款
func (h *LogoHandler) Refund(c *gin.Context) {
	caller, ok := callerAddress(c)
	if !ok {
		return
	}
	id, ok := logoId(c)
	if !ok {
		return
	}

	if err := h.registry.Refund(caller, id); err != nil {
		WriteError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "refund initiated", nil)
}

// DistributeRewards 分配资金池
func (h *LogoHandler) DistributeRewards(c *gin.Context) {
	caller, ok := callerAddress(c)
	if !ok {
		return
	}
	id, ok := logoId(c)
	if !ok {
		return
	}

	if err := h.registry.DistributeRewards(caller, id); err != nil {
		WriteError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "rewards distributed", nil)
}

// GetSpeakers 获取演讲者名单
func (h *LogoHandler) GetSpeakers(c *gin.Context) {
	id, ok := logoId(c)
	if !ok {
		return
	}

	speakers, err := h.registry.GetSpeakersForLogo(id)
	if err != nil {
		WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"speakers": speakers})
}

// GetEvents 获取事件记录
func (h *LogoHandler) GetEvents(c *gin.Context) {
	id, ok := logoId(c)
	if !ok {
		return
	}

	events, err := h.registry.GetEventsForLogo(id)
	if err != nil {
		WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"events": events})
}

// logoId 解析路径中的Logo编号
func logoId(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		ErrorResponse(c, http.StatusBadRequest, "invalid logo id")
		return 0, false
	}
	return id, true
}
