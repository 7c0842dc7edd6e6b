package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"fi-dashboard-go/internal/chat"
	"fi-dashboard-go/internal/models"
	"fi-dashboard-go/internal/store"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type handler struct {
	svc  *FinanceService
	chat *chat.Orchestrator
}

type chatRequest struct {
	Text string `json:"text" binding:"required"`
}

type chatResponse struct {
	Reply   *chat.Message       `json:"reply,omitempty"`
	Pending *chat.PendingAction `json:"pending"`
}

type transcriptResponse struct {
	Messages   []chat.Message      `json:"messages"`
	Pending    *chat.PendingAction `json:"pending"`
	Processing bool                `json:"processing"`
}

func abort(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, models.ErrorResponse{Error: msg})
}

// fail maps err to a status: invalid records are the caller's fault,
// everything else is a store failure.
func fail(c *gin.Context, err error) {
	if errors.Is(err, store.ErrInvalidRecord) {
		abort(c, http.StatusBadRequest, err.Error())
		return
	}
	zap.L().Error("Request failed",
		zap.String("request_id", requestid.Get(c)),
		zap.String("path", c.FullPath()),
		zap.Error(err))
	abort(c, http.StatusBadGateway, err.Error())
}

// bind decodes the JSON body into dst, answering 400 on failure
func bind(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		abort(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return false
	}
	return true
}

func (h *handler) health(c *gin.Context) {
	if err := h.svc.HealthCheck(c.Request.Context()); err != nil {
		abort(c, http.StatusServiceUnavailable, err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *handler) dashboard(c *gin.Context) {
	summary, err := h.svc.Dashboard(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *handler) listFDs(c *gin.Context) {
	fds, err := h.svc.FDs(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"fds": nonNil(fds)})
}

func (h *handler) createFD(c *gin.Context) {
	var fd models.FDTracker
	if !bind(c, &fd) {
		return
	}
	created, err := h.svc.AddFD(c.Request.Context(), fd)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *handler) transactions(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			abort(c, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	view, err := h.svc.Transactions(c.Request.Context(), limit)
	if err != nil {
		fail(c, err)
		return
	}
	view.Expenses = nonNil(view.Expenses)
	view.Incomes = nonNil(view.Incomes)
	c.JSON(http.StatusOK, view)
}

func (h *handler) createExpense(c *gin.Context) {
	var e models.Expense
	if !bind(c, &e) {
		return
	}
	created, err := h.svc.AddExpense(c.Request.Context(), e)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *handler) createIncome(c *gin.Context) {
	var i models.PassiveIncome
	if !bind(c, &i) {
		return
	}
	created, err := h.svc.AddIncome(c.Request.Context(), i)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *handler) listAssets(c *gin.Context) {
	assets, err := h.svc.Assets(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"assets": nonNil(assets)})
}

func (h *handler) createAsset(c *gin.Context) {
	var a models.FinancialAsset
	if !bind(c, &a) {
		return
	}
	created, err := h.svc.AddAsset(c.Request.Context(), a)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *handler) chatMessages(c *gin.Context) {
	c.JSON(http.StatusOK, transcriptResponse{
		Messages:   nonNil(h.chat.Messages()),
		Pending:    h.chat.Pending(),
		Processing: h.chat.Processing(),
	})
}

func (h *handler) sendChatMessage(c *gin.Context) {
	var req chatRequest
	if !bind(c, &req) {
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		abort(c, http.StatusBadRequest, "text must not be blank")
		return
	}
	reply := h.chat.SendMessage(c.Request.Context(), req.Text)
	c.JSON(http.StatusOK, chatResponse{Reply: reply, Pending: h.chat.Pending()})
}

func (h *handler) confirmChatAction(c *gin.Context) {
	reply := h.chat.ConfirmAction(c.Request.Context())
	if reply == nil {
		abort(c, http.StatusConflict, "no action is waiting for confirmation")
		return
	}
	c.JSON(http.StatusOK, chatResponse{Reply: reply})
}

func (h *handler) cancelChatAction(c *gin.Context) {
	reply := h.chat.CancelAction()
	if reply == nil {
		abort(c, http.StatusConflict, "no action is waiting for confirmation")
		return
	}
	c.JSON(http.StatusOK, chatResponse{Reply: reply})
}

// nonNil keeps empty listings encoded as [] rather than null
func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
