package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/0xan000n/logos-service/internal/clock"
	"github.com/0xan000n/logos-service/internal/database"
	"github.com/0xan000n/logos-service/internal/ledger"
	"github.com/0xan000n/logos-service/internal/model"
	"github.com/0xan000n/logos-service/internal/payment"
	"github.com/0xan000n/logos-service/internal/policy"
	"github.com/0xan000n/logos-service/internal/registry"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	owner    = "0x1111111111111111111111111111111111111111"
	proposer = "0x4444444444444444444444444444444444444444"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

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
		PlatformAddress:  "0x2222222222222222222222222222222222222222",
		CommunityAddress: "0x3333333333333333333333333333333333333333",
	}
	require.NoError(t, db.Create(&record).Error)

	clk := clock.SystemClock{}
	rail := payment.NewRecordRail()
	reg := registry.NewRegistry(db, clk, rail)
	led := ledger.NewLedger(db, clk, rail)
	pol := policy.NewPolicy(db, owner)

	return Setup(reg, led, pol)
}

func doRequest(r *gin.Engine, method, path, caller, body string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if caller != "" {
		req.Header.Set("X-Caller-Address", caller)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHealthCheck(t *testing.T) {
	r := newTestRouter(t)

	w := doRequest(r, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "logos-service")
}

func TestCreateAndFetchLogo(t *testing.T) {
	r := newTestRouter(t)

	w := doRequest(r, http.MethodPost, "/api/v1/logos", proposer,
		`{"title":"test logo","proposer_fee":100000,"duration_days":40}`)
	require.Equal(t, http.StatusCreated, w.Code)

	var created struct {
		Data model.LogoModel `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.NotZero(t, created.Data.Id)

	w = doRequest(r, http.MethodGet, "/api/v1/logos/1", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "test logo")
}

func TestCreateLogoRequiresCallerHeader(t *testing.T) {
	r := newTestRouter(t)

	w := doRequest(r, http.MethodPost, "/api/v1/logos", "",
		`{"title":"test logo","proposer_fee":100000,"duration_days":40}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "X-Caller-Address")
}

func TestBusinessErrorMapping(t *testing.T) {
	r := newTestRouter(t)

	// 不存在的Logo映射为404
	w := doRequest(r, http.MethodPost, "/api/v1/logos/999/refund", proposer, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	// 超出费率上限映射为400
	w = doRequest(r, http.MethodPost, "/api/v1/logos", proposer,
		`{"title":"test logo","proposer_fee":900001,"duration_days":40}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// 非授权配置变更映射为403
	w = doRequest(r, http.MethodPut, "/api/v1/policy", proposer, `{"platform_fee":1}`)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestPolicyEndpoints(t *testing.T) {
	r := newTestRouter(t)

	w := doRequest(r, http.MethodGet, "/api/v1/policy", "", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = doRequest(r, http.MethodPut, "/api/v1/policy", owner, `{"platform_fee":120000}`)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doRequest(r, http.MethodGet, "/api/v1/policy", "", "")
	assert.Contains(t, w.Body.String(), "120000")
}

func TestCrowdfundAndWithdrawFlow(t *testing.T) {
	r := newTestRouter(t)

	w := doRequest(r, http.MethodPost, "/api/v1/logos", proposer,
		`{"title":"test logo","proposer_fee":100000,"duration_days":40}`)
	require.Equal(t, http.StatusCreated, w.Code)

	backer := "0x00000000000000000000000000000000000000a1"
	w = doRequest(r, http.MethodPost, "/api/v1/logos/1/crowdfund", backer,
		`{"amount":100000000000000}`)
	require.Equal(t, http.StatusCreated, w.Code)

	w = doRequest(r, http.MethodPost, "/api/v1/logos/1/withdraw", backer, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "100000000000000")

	// 二次提取没有存活出资，映射为409
	w = doRequest(r, http.MethodPost, "/api/v1/logos/1/withdraw", backer, "")
	assert.Equal(t, http.StatusConflict, w.Code)
}
