package controllers

import (
	"strings"

	"github.com/flaboy/aira-pay/pkg/intent"
	"github.com/flaboy/aira-pay/pkg/types"

	"github.com/flaboy/pin"
	"github.com/flaboy/pin/usererrors"
	"github.com/shopspring/decimal"
)

// PaymentController 付款人侧操作：创建、查询、取消、确认
type PaymentController struct {
	intents *intent.Service
}

func NewPaymentController(intents *intent.Service) *PaymentController {
	return &PaymentController{intents: intents}
}

// HandleRequest 由宿主路由转发请求，path为去掉挂载前缀后的剩余路径
func (pc *PaymentController) HandleRequest(c *pin.Context, method, path string) error {
	segments := strings.Split(strings.Trim(path, "/"), "/")

	switch {
	case method == "POST" && path == "":
		return pc.Create(c)
	case method == "GET" && len(segments) == 2 && segments[0] == "user":
		return pc.ListByPayer(c, segments[1])
	case method == "GET" && len(segments) == 2 && segments[0] == "lp":
		return pc.ListByLP(c, segments[1])
	case method == "GET" && len(segments) == 1 && segments[0] != "":
		return pc.Get(c, segments[0])
	case method == "PUT" && len(segments) == 2 && segments[1] == "cancel":
		return pc.Cancel(c, segments[0])
	case method == "PUT" && len(segments) == 2 && segments[1] == "confirm":
		return pc.Confirm(c, segments[0])
	}

	c.JSON(404, map[string]string{"error": "Not found"})
	return nil
}

// Create POST /
func (pc *PaymentController) Create(c *pin.Context) error {
	type CreateIntentRequest struct {
		CodeContent   string          `json:"code_content" binding:"required"`
		Amount        decimal.Decimal `json:"amount" binding:"required"`
		Currency      string          `json:"currency"`
		Description   string          `json:"description"`
		WalletAddress string          `json:"wallet_address" binding:"required"`
	}

	var req CreateIntentRequest
	if err := c.BindJSON(&req); err != nil {
		return err
	}

	pi, err := pc.intents.Create(intent.CreateIntentInput{
		CodeContent:   req.CodeContent,
		Amount:        req.Amount.Mul(types.Dec100).IntPart(),
		Currency:      req.Currency,
		Description:   req.Description,
		WalletAddress: req.WalletAddress,
	})
	if err != nil {
		return err
	}

	return c.Render(renderIntent(pi))
}

// Get GET /:id
func (pc *PaymentController) Get(c *pin.Context, intentHashID string) error {
	pi, err := pc.intents.Get(intentHashID)
	if err != nil {
		return err
	}

	history, err := pc.intents.History(pi.ID)
	if err != nil {
		return err
	}

	type statusChange struct {
		Status    string `json:"status"`
		Note      string `json:"note"`
		Timestamp string `json:"timestamp"`
	}
	changes := make([]statusChange, 0, len(history))
	for _, h := range history {
		changes = append(changes, statusChange{
			Status:    string(h.Status),
			Note:      h.Note,
			Timestamp: h.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		})
	}

	return c.Render(map[string]interface{}{
		"intent":         renderIntent(pi),
		"status_history": changes,
	})
}

// Cancel PUT /:id/cancel
func (pc *PaymentController) Cancel(c *pin.Context, intentHashID string) error {
	type CancelRequest struct {
		WalletAddress string `json:"wallet_address" binding:"required"`
		Reason        string `json:"reason"`
	}

	var req CancelRequest
	if err := c.BindJSON(&req); err != nil {
		return err
	}
	if req.WalletAddress == "" {
		return usererrors.New("wallet_address is required")
	}

	pi, err := pc.intents.Cancel(intentHashID, req.WalletAddress, req.Reason)
	if err != nil {
		return err
	}

	return c.Render(map[string]interface{}{"status": string(pi.Status)})
}

// Confirm PUT /:id/confirm
func (pc *PaymentController) Confirm(c *pin.Context, intentHashID string) error {
	type ConfirmRequest struct {
		WalletAddress string `json:"wallet_address" binding:"required"`
	}

	var req ConfirmRequest
	if err := c.BindJSON(&req); err != nil {
		return err
	}
	if req.WalletAddress == "" {
		return usererrors.New("wallet_address is required")
	}

	pi, err := pc.intents.Confirm(intentHashID, req.WalletAddress)
	if err != nil {
		return err
	}

	return c.Render(map[string]interface{}{"status": string(pi.Status)})
}

// ListByPayer GET /user/:wallet
func (pc *PaymentController) ListByPayer(c *pin.Context, wallet string) error {
	form := types.QueryForm{}
	if err := form.Parse(c); err != nil {
		return err
	}

	items, err := pc.intents.ListByPayer(wallet, c.Query("status"), &form)
	if err != nil {
		return err
	}

	return c.Render(types.QueryResult{Items: renderIntents(items), Pagination: &form.Pagination})
}

// ListByLP GET /lp/:wallet
func (pc *PaymentController) ListByLP(c *pin.Context, wallet string) error {
	form := types.QueryForm{}
	if err := form.Parse(c); err != nil {
		return err
	}

	items, err := pc.intents.ListByLP(wallet, c.Query("status"), &form)
	if err != nil {
		return err
	}

	return c.Render(types.QueryResult{Items: renderIntents(items), Pagination: &form.Pagination})
}
