package handler

import (
	"context"
	"time"

	"github.com/aihaccp/backend/internal/application/metering"
	domainMetering "github.com/aihaccp/backend/internal/domain/metering"
	"github.com/aihaccp/backend/internal/domain/shared"
	"github.com/aihaccp/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// PriceLookup resolves the effective unit price of an action
type PriceLookup interface {
	GetPrice(ctx context.Context, actionType string) decimal.Decimal
}

// UsageHandler serves cost reports and the usage audit trail
type UsageHandler struct {
	BaseHandler
	ledger *metering.UsageLedger
	prices PriceLookup
}

// NewUsageHandler creates a new UsageHandler
func NewUsageHandler(ledger *metering.UsageLedger, prices PriceLookup) *UsageHandler {
	return &UsageHandler{ledger: ledger, prices: prices}
}

// Report godoc
// @Summary      Cost report of the caller's organization
// @Tags         usage
// @Produce      json
// @Success      200 {object} dto.Response{data=domainMetering.UsageReport}
// @Security     BearerAuth
// @Router       /usage-report [get]
func (h *UsageHandler) Report(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}
	report, err := h.ledger.Report(c.Request.Context(), caller.OrganizationID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, report)
}

// Records godoc
// @Summary      Usage audit trail, newest first
// @Tags         usage
// @Produce      json
// @Param        page query int false "Page" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Param        action_type query string false "Only this action type"
// @Param        from query string false "Inclusive lower bound (RFC 3339 or YYYY-MM-DD)"
// @Param        to query string false "Exclusive upper bound (RFC 3339 or YYYY-MM-DD)"
// @Success      200 {object} dto.Response{data=[]dto.UsageRecordResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /usage-records [get]
func (h *UsageHandler) Records(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}
	var req dto.UsageRecordListRequest
	if !h.BindQuery(c, &req) {
		return
	}

	filter := domainMetering.UsageRecordFilter{
		Filter:     shared.Filter{Page: req.Page, PageSize: req.PageSize},
		ActionType: req.ActionType,
	}
	var err error
	if filter.From, err = parseTimeParam(req.From); err != nil {
		h.BadRequest(c, "Invalid 'from' timestamp")
		return
	}
	if filter.To, err = parseTimeParam(req.To); err != nil {
		h.BadRequest(c, "Invalid 'to' timestamp")
		return
	}
	if filter.From != nil && filter.To != nil && !filter.From.Before(*filter.To) {
		h.BadRequest(c, "'from' must be before 'to'")
		return
	}

	page, err := h.ledger.List(c.Request.Context(), caller.OrganizationID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, dto.ToUsageRecordResponses(page.Items), page.Total, page.Page, page.PageSize)
}

// Price godoc
// @Summary      Effective unit price of an action type
// @Description  Unknown action types report the fallback price
// @Tags         usage
// @Produce      json
// @Param        action_type path string true "Action type"
// @Success      200 {object} dto.Response{data=dto.PriceResponse}
// @Security     BearerAuth
// @Router       /pricing/{action_type} [get]
func (h *UsageHandler) Price(c *gin.Context) {
	action := c.Param("action_type")
	if err := domainMetering.ValidateActionType(action); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.PriceResponse{
		ActionType: action,
		Price:      h.prices.GetPrice(c.Request.Context(), action),
	})
}

func parseTimeParam(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		t = t.UTC()
		return &t, nil
	}
	t, err := time.Parse(time.DateOnly, value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
