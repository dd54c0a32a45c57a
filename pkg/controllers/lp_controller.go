package controllers

import (
	"mime/multipart"
	"strings"

	"github.com/flaboy/aira-pay/pkg/importer"
	"github.com/flaboy/aira-pay/pkg/lp"
	"github.com/flaboy/aira-pay/pkg/matching"
	"github.com/flaboy/aira-pay/pkg/models"
	"github.com/flaboy/aira-pay/pkg/settlement"
	"github.com/flaboy/aira-pay/pkg/types"

	"github.com/flaboy/pin"
	"github.com/flaboy/pin/usererrors"
	"github.com/shopspring/decimal"
	"github.com/spf13/cast"
)

// LPController LP侧操作：注册、额度管理、任务池、接单、标记代付
type LPController struct {
	lps         *lp.Service
	matcher     *matching.Service
	settlements *settlement.Queue
}

func NewLPController(lps *lp.Service, matcher *matching.Service, settlements *settlement.Queue) *LPController {
	return &LPController{lps: lps, matcher: matcher, settlements: settlements}
}

func (lc *LPController) HandleRequest(c *pin.Context, method, path string) error {
	segments := strings.Split(strings.Trim(path, "/"), "/")

	switch {
	case method == "POST" && path == "register":
		return lc.Register(c)
	case method == "POST" && path == "import":
		return lc.Import(c)
	case method == "PUT" && path == "quota":
		return lc.UpdateQuota(c)
	case method == "GET" && path == "task-pool":
		return lc.TaskPool(c)
	case method == "POST" && len(segments) == 3 && segments[0] == "task" && segments[2] == "claim":
		return lc.Claim(c, segments[1])
	case method == "POST" && len(segments) == 3 && segments[0] == "task" && segments[2] == "mark-paid":
		return lc.MarkPaid(c, segments[1])
	case method == "POST" && len(segments) == 3 && segments[0] == "task" && segments[2] == "resubmit":
		return lc.Resubmit(c, segments[1])
	case method == "GET" && len(segments) == 1 && segments[0] != "":
		return lc.Get(c, segments[0])
	}

	c.JSON(404, map[string]string{"error": "Not found"})
	return nil
}

// Register POST /register
func (lc *LPController) Register(c *pin.Context) error {
	type RegisterRequest struct {
		WalletAddress       string          `json:"wallet_address" binding:"required"`
		Name                string          `json:"name"`
		Email               string          `json:"email"`
		SupportedPlatforms  []string        `json:"supported_platforms" binding:"required"`
		TotalQuota          decimal.Decimal `json:"total_quota" binding:"required"`
		PerTransactionQuota decimal.Decimal `json:"per_transaction_quota" binding:"required"`
	}

	var req RegisterRequest
	if err := c.BindJSON(&req); err != nil {
		return err
	}

	registered, err := lc.lps.Register(lp.RegisterInput{
		WalletAddress:       req.WalletAddress,
		Name:                req.Name,
		Email:               req.Email,
		SupportedPlatforms:  req.SupportedPlatforms,
		TotalQuota:          req.TotalQuota.Mul(types.Dec100).IntPart(),
		PerTransactionQuota: req.PerTransactionQuota.Mul(types.Dec100).IntPart(),
	})
	if err != nil {
		return err
	}

	return c.Render(renderLP(registered))
}

// Import POST /import - 批量导入LP表格
func (lc *LPController) Import(c *pin.Context) error {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		return usererrors.New("file is required")
	}
	defer func(f multipart.File) { _ = f.Close() }(file)

	result, err := importer.NewLPImporter(lc.lps).Import(file, header.Filename)
	if err != nil {
		return err
	}

	return c.Render(result)
}

// UpdateQuota PUT /quota
func (lc *LPController) UpdateQuota(c *pin.Context) error {
	type UpdateQuotaRequest struct {
		WalletAddress       string           `json:"wallet_address" binding:"required"`
		TotalQuota          *decimal.Decimal `json:"total_quota"`
		PerTransactionQuota *decimal.Decimal `json:"per_transaction_quota"`
	}

	var req UpdateQuotaRequest
	if err := c.BindJSON(&req); err != nil {
		return err
	}
	if req.TotalQuota == nil && req.PerTransactionQuota == nil {
		return usererrors.New("at least one of total_quota or per_transaction_quota is required")
	}

	var total, perTransaction *int64
	if req.TotalQuota != nil {
		v := req.TotalQuota.Mul(types.Dec100).IntPart()
		total = &v
	}
	if req.PerTransactionQuota != nil {
		v := req.PerTransactionQuota.Mul(types.Dec100).IntPart()
		perTransaction = &v
	}

	updated, err := lc.lps.UpdateQuota(req.WalletAddress, total, perTransaction)
	if err != nil {
		return err
	}

	return c.Render(map[string]interface{}{"quota": renderLP(updated).Quota})
}

// TaskPool GET /task-pool
func (lc *LPController) TaskPool(c *pin.Context) error {
	form := types.QueryForm{}
	if err := form.Parse(c); err != nil {
		return err
	}

	filter := matching.PoolFilter{Platform: c.Query("platform")}
	if v := c.Query("min_amount"); v != "" {
		filter.MinAmount = cast.ToInt64(cast.ToFloat64(v) * 100)
	}
	if v := c.Query("max_amount"); v != "" {
		filter.MaxAmount = cast.ToInt64(cast.ToFloat64(v) * 100)
	}

	items, err := lc.matcher.Pool(filter, &form)
	if err != nil {
		return err
	}

	return c.Render(types.QueryResult{Items: renderIntents(items), Pagination: &form.Pagination})
}

// Claim POST /task/:id/claim
func (lc *LPController) Claim(c *pin.Context, intentHashID string) error {
	type ClaimRequest struct {
		WalletAddress string `json:"wallet_address" binding:"required"`
	}

	var req ClaimRequest
	if err := c.BindJSON(&req); err != nil {
		return err
	}
	if req.WalletAddress == "" {
		return usererrors.New("wallet_address is required")
	}

	pi, err := lc.matcher.Claim(intentHashID, req.WalletAddress)
	if err != nil {
		return err
	}

	return c.Render(renderIntent(pi))
}

// MarkPaid POST /task/:id/mark-paid
func (lc *LPController) MarkPaid(c *pin.Context, intentHashID string) error {
	type MarkPaidRequest struct {
		WalletAddress string `json:"wallet_address" binding:"required"`
		Note          string `json:"note"`
	}

	var req MarkPaidRequest
	if err := c.BindJSON(&req); err != nil {
		return err
	}
	if req.WalletAddress == "" {
		return usererrors.New("wallet_address is required")
	}

	pi, err := lc.matcher.MarkPaid(intentHashID, req.WalletAddress, req.Note)
	if err != nil {
		return err
	}

	return c.Render(map[string]interface{}{"status": string(pi.Status)})
}

// Resubmit POST /task/:id/resubmit - 重新提交结算失败的意图
func (lc *LPController) Resubmit(c *pin.Context, intentHashID string) error {
	if err := lc.settlements.Resubmit(intentHashID); err != nil {
		return err
	}
	return c.Render(map[string]interface{}{"resubmitted": true})
}

// Get GET /:key — 接受钱包地址或lp-前缀的对外ID
func (lc *LPController) Get(c *pin.Context, key string) error {
	var (
		found *models.LP
		err   error
	)
	if strings.HasPrefix(key, "lp-") {
		found, err = lc.lps.GetByPublicID(key)
	} else {
		found, err = lc.lps.Get(key)
	}
	if err != nil {
		return err
	}
	return c.Render(renderLP(found))
}
