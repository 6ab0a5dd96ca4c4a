package handler

import (
	"net/http"

	"github.com/0xan000n/logos-service/internal/ledger"
	"github.com/gin-gonic/gin"
)

type BackerHandler struct {
	ledger *ledger.Ledger
}

func NewBackerHandler(l *ledger.Ledger) *BackerHandler {
	return &BackerHandler{ledger: l}
}

// Crowdfund 出资
func (h *BackerHandler) Crowdfund(c *gin.Context) {
	caller, ok := callerAddress(c)
	if !ok {
		return
	}
	id, ok := logoId(c)
	if !ok {
		return
	}

	var req struct {
		Amount   int64  `json:"amount"`
		Referrer string `json:"referrer"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.ledger.Crowdfund(id, caller, req.Referrer, req.Amount); err != nil {
		WriteError(c, err)
		return
	}

	SuccessResponse(c, http.StatusCreated, "pledge recorded", nil)
}

// WithdrawFunds 提取出资
func (h *BackerHandler) WithdrawFunds(c *gin.Context) {
	caller, ok := callerAddress(c)
	if !ok {
		return
	}
	id, ok := logoId(c)
	if !ok {
		return
	}

	amount, err := h.ledger.WithdrawFunds(id, caller)
	if err != nil {
		WriteError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "funds withdrawn", gin.H{"amount": amount})
}

// RejectFunds 投反对票
func (h *BackerHandler) RejectFunds(c *gin.Context) {
	caller, ok := callerAddress(c)
	if !ok {
		return
	}
	id, ok := logoId(c)
	if !ok {
		return
	}

	if err := h.ledger.RejectFunds(id, caller); err != nil {
		WriteError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "rejection recorded", nil)
}

// GetBackers 获取出资人名单
func (h *BackerHandler) GetBackers(c *gin.Context) {
	id, ok := logoId(c)
	if !ok {
		return
	}

	backers, err := h.ledger.GetBackersForLogo(id)
	if err != nil {
		WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"backers": backers})
}

// GetClaimable 查询可认领余额
func (h *BackerHandler) GetClaimable(c *gin.Context) {
	caller, ok := callerAddress(c)
	if !ok {
		return
	}

	amount, err := h.ledger.ClaimableOf(caller)
	if err != nil {
		WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"claimable": amount})
}

// Claim 认领余额
func (h *BackerHandler) Claim(c *gin.Context) {
	caller, ok := callerAddress(c)
	if !ok {
		return
	}

	amount, err := h.ledger.Claim(caller)
	if err != nil {
		WriteError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "funds claimed", gin.H{"amount": amount})
}
