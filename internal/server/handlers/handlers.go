package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bobsantos/likha-app-sub000/internal/config"
	"github.com/bobsantos/likha-app-sub000/internal/model"
	"github.com/bobsantos/likha-app-sub000/internal/report"
	"github.com/bobsantos/likha-app-sub000/internal/royalty"
	"github.com/bobsantos/likha-app-sub000/internal/session"
	"github.com/bobsantos/likha-app-sub000/internal/store"
)

// Handlers wires the report pipeline and royalty engine to HTTP.
type Handlers struct {
	db        *store.Store
	sessions  *session.Store
	suggester report.Suggester
	cfg       *config.AppConfig
	log       *zap.Logger
}

// NewHandlers creates the API handler set.
func NewHandlers(db *store.Store, sessions *session.Store, suggester report.Suggester, cfg *config.AppConfig, log *zap.Logger) *Handlers {
	return &Handlers{
		db:        db,
		sessions:  sessions,
		suggester: suggester,
		cfg:       cfg,
		log:       log,
	}
}

// Response is the common API envelope.
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

func errorResponse(c *gin.Context, code int, message string) {
	c.JSON(http.StatusOK, Response{
		Code:    code,
		Message: message,
	})
}

// API error codes. 1xxx input rejection, 2xxx session lifecycle, 3xxx
// mapping/calculation integrity, 4xxx not found, 5xxx internal.
const (
	codeBadRequest        = 1001
	codeUnsupportedFormat = 1002
	codeFileTooLarge      = 1003
	codeCorruptFile       = 1004
	codeNoDataRows        = 1005
	codeSessionExpired    = 2001
	codeNetSalesRequired  = 3001
	codeCategoryRequired  = 3002
	codeUnknownCategory   = 3003
	codeNegativeNetSales  = 3004
	codeDuplicatePeriod   = 3005
	codeNotFound          = 4004
	codeInternal          = 5001
)

// pipelineError maps typed pipeline errors onto API codes.
func pipelineError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, model.ErrUnsupportedFormat):
		errorResponse(c, codeUnsupportedFormat, err.Error())
	case errors.Is(err, model.ErrFileTooLarge):
		errorResponse(c, codeFileTooLarge, err.Error())
	case errors.Is(err, model.ErrCorruptFile):
		errorResponse(c, codeCorruptFile, err.Error())
	case errors.Is(err, model.ErrNoDataRows):
		errorResponse(c, codeNoDataRows, err.Error())
	case errors.Is(err, model.ErrSessionExpired):
		errorResponse(c, codeSessionExpired, err.Error())
	case errors.Is(err, model.ErrNetSalesColumnRequired):
		errorResponse(c, codeNetSalesRequired, err.Error())
	case errors.Is(err, model.ErrCategoryBreakdownRequired):
		errorResponse(c, codeCategoryRequired, err.Error())
	case errors.Is(err, model.ErrUnknownCategory):
		errorResponse(c, codeUnknownCategory, err.Error())
	case errors.Is(err, model.ErrNegativeNetSales):
		errorResponse(c, codeNegativeNetSales, err.Error())
	case errors.Is(err, model.ErrDuplicatePeriod):
		errorResponse(c, codeDuplicatePeriod, err.Error())
	case errors.Is(err, store.ErrContractNotFound):
		errorResponse(c, codeNotFound, err.Error())
	default:
		errorResponse(c, codeInternal, err.Error())
	}
}

// RegisterRoutes registers all API routes on the group.
func (h *Handlers) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/contracts", h.CreateContract)
	rg.GET("/contracts", h.ListContracts)
	rg.GET("/contracts/:contractId", h.GetContract)
	rg.GET("/contracts/:contractId/periods", h.ListPeriods)
	rg.GET("/contracts/:contractId/tracking", h.GetTracking)

	rg.POST("/reports/parse", h.ParseReport)
	rg.POST("/reports/:sessionId/confirm", h.ConfirmReport)
	rg.DELETE("/reports/:sessionId", h.DiscardSession)
}

// ==================== Contracts ====================

// CreateContract registers a contract record.
func (h *Handlers) CreateContract(c *gin.Context) {
	var contract model.Contract
	if err := c.ShouldBindJSON(&contract); err != nil {
		errorResponse(c, codeBadRequest, "invalid contract payload")
		return
	}
	if contract.ID == "" {
		contract.ID = uuid.New().String()
	}
	if contract.ReportingFrequency.PeriodsPerYear() == 0 {
		errorResponse(c, codeBadRequest, "invalid reporting frequency")
		return
	}
	if err := h.db.SaveContract(&contract); err != nil {
		h.log.Error("save contract failed", zap.Error(err))
		errorResponse(c, codeInternal, err.Error())
		return
	}
	success(c, contract)
}

// ListContracts returns all contracts.
func (h *Handlers) ListContracts(c *gin.Context) {
	contracts, err := h.db.ListContracts()
	if err != nil {
		errorResponse(c, codeInternal, err.Error())
		return
	}
	success(c, contracts)
}

// GetContract returns one contract.
func (h *Handlers) GetContract(c *gin.Context) {
	contract, err := h.db.GetContract(c.Param("contractId"))
	if err != nil {
		pipelineError(c, err)
		return
	}
	success(c, contract)
}

// ListPeriods returns a contract's confirmed sales periods.
func (h *Handlers) ListPeriods(c *gin.Context) {
	periods, err := h.db.ListPeriods(c.Param("contractId"))
	if err != nil {
		errorResponse(c, codeInternal, err.Error())
		return
	}
	success(c, periods)
}

// ==================== Reports ====================

// parseResponse is the payload of a successful parse: everything the mapping
// confirmation UI needs.
type parseResponse struct {
	SessionID        string                 `json:"sessionId"`
	SheetName        string                 `json:"sheetName,omitempty"`
	DetectedColumns  []string               `json:"detectedColumns"`
	SampleRows       [][]string             `json:"sampleRows"`
	SuggestedMapping []model.ResolvedColumn `json:"suggestedMapping"`
	Metadata         model.ReportMeta       `json:"metadata"`
	Footer           []model.FooterEntry    `json:"footer,omitempty"`
}

// ParseReport ingests an uploaded report: decode, detect structure, resolve
// columns, and park everything in a session awaiting confirmation.
func (h *Handlers) ParseReport(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		errorResponse(c, codeBadRequest, "file is required")
		return
	}
	defer file.Close()

	contractID := c.PostForm("contractId")
	periodLabel := c.PostForm("periodLabel")
	periodEndRaw := c.PostForm("periodEnd")
	if contractID == "" || periodLabel == "" {
		errorResponse(c, codeBadRequest, "contractId and periodLabel are required")
		return
	}
	periodEnd, err := time.Parse("2006-01-02", periodEndRaw)
	if err != nil {
		errorResponse(c, codeBadRequest, "periodEnd must be YYYY-MM-DD")
		return
	}

	contract, err := h.db.GetContract(contractID)
	if err != nil {
		pipelineError(c, err)
		return
	}

	// Size is checked again inside ReadGrid before any decode work.
	if header.Size > h.cfg.Upload.MaxBytes {
		errorResponse(c, codeFileTooLarge, "file exceeds size limit")
		return
	}
	data, err := io.ReadAll(file)
	if err != nil {
		errorResponse(c, codeCorruptFile, "failed to read upload")
		return
	}

	grid, err := report.ReadGrid(header.Filename, data, h.cfg.Upload.MaxBytes)
	if err != nil {
		pipelineError(c, err)
		return
	}
	table, err := report.DetectTable(grid)
	if err != nil {
		pipelineError(c, err)
		return
	}

	saved, err := h.db.GetMapping(contract.LicenseeID)
	if err != nil {
		h.log.Warn("saved mapping lookup failed", zap.Error(err))
	}
	resolver := &report.Resolver{Saved: saved, Suggester: h.suggester}
	resolved := resolver.Resolve(c.Request.Context(), table.ColumnNames)

	sess := h.sessions.Create(&session.Session{
		ContractID:  contract.ID,
		FileName:    header.Filename,
		PeriodLabel: periodLabel,
		PeriodEnd:   periodEnd,
		Grid:        grid,
		Table:       table,
		Suggested:   resolved,
	})

	h.log.Info("report parsed",
		zap.String("sessionId", sess.ID),
		zap.String("contractId", contract.ID),
		zap.Int("columns", len(table.ColumnNames)))

	success(c, parseResponse{
		SessionID:        sess.ID,
		SheetName:        grid.SheetName,
		DetectedColumns:  table.ColumnNames,
		SampleRows:       sampleRows(grid, table, h.cfg.Upload.SampleRows),
		SuggestedMapping: resolved,
		Metadata:         table.Metadata,
		Footer:           table.Footer,
	})
}

type confirmRequest struct {
	Mapping     model.FieldMapping `json:"mapping"`
	SaveMapping bool               `json:"saveMapping"`
}

type confirmResponse struct {
	PeriodID string               `json:"periodId"`
	Royalty  *model.RoyaltyResult `json:"royalty"`
	Tracking model.MGTracking     `json:"tracking"`
}

// ConfirmReport applies a confirmed mapping, computes the royalty, persists
// the period and returns the updated guarantee tracking.
func (h *Handlers) ConfirmReport(c *gin.Context) {
	sess, err := h.sessions.Get(c.Param("sessionId"))
	if err != nil {
		pipelineError(c, err)
		return
	}

	var req confirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, codeBadRequest, "invalid confirmation payload")
		return
	}
	for col, field := range req.Mapping {
		if !field.IsValid() {
			errorResponse(c, codeBadRequest, "unknown field for column "+col)
			return
		}
	}

	contract, err := h.db.GetContract(sess.ContractID)
	if err != nil {
		pipelineError(c, err)
		return
	}

	// A duplicate period is rejected before any aggregation work.
	if exists, err := h.db.HasPeriod(contract.ID, sess.PeriodLabel); err != nil {
		errorResponse(c, codeInternal, err.Error())
		return
	} else if exists {
		pipelineError(c, model.ErrDuplicatePeriod)
		return
	}

	var knownCategories []string
	if contract.Rate.Kind == model.RateCategory {
		for cat := range contract.Rate.CategoryRates {
			knownCategories = append(knownCategories, cat)
		}
	}

	agg, err := report.Aggregate(sess.Grid, sess.Table, req.Mapping, knownCategories)
	if err != nil {
		pipelineError(c, err)
		return
	}
	if agg.PeriodEnd == nil {
		agg.PeriodEnd = &sess.PeriodEnd
	}

	result, err := royalty.Calculate(agg, contract.Rate)
	if err != nil {
		pipelineError(c, err)
		return
	}

	period := &model.SalesPeriod{
		ID:            uuid.New().String(),
		ContractID:    contract.ID,
		PeriodLabel:   sess.PeriodLabel,
		PeriodEnd:     sess.PeriodEnd,
		Aggregated:    *agg,
		RoyaltyAmount: result.Amount,
		ConfirmedAt:   time.Now(),
	}
	if err := h.db.InsertPeriod(period); err != nil {
		pipelineError(c, err)
		return
	}

	if req.SaveMapping {
		if err := h.db.SaveMapping(contract.LicenseeID, req.Mapping); err != nil {
			h.log.Warn("save mapping failed", zap.Error(err))
		}
	}

	tracking, err := h.trackingForYear(contract, sess.PeriodEnd.Year())
	if err != nil {
		h.log.Warn("tracking recompute failed", zap.Error(err))
	}

	h.sessions.Delete(sess.ID)

	h.log.Info("period confirmed",
		zap.String("contractId", contract.ID),
		zap.String("period", sess.PeriodLabel),
		zap.Float64("royalty", result.Amount))

	success(c, confirmResponse{
		PeriodID: period.ID,
		Royalty:  result,
		Tracking: tracking,
	})
}

// DiscardSession drops an upload session without confirming it.
func (h *Handlers) DiscardSession(c *gin.Context) {
	h.sessions.Delete(c.Param("sessionId"))
	success(c, gin.H{"discarded": true})
}

// GetTracking recomputes minimum-guarantee tracking for a contract year.
func (h *Handlers) GetTracking(c *gin.Context) {
	contract, err := h.db.GetContract(c.Param("contractId"))
	if err != nil {
		pipelineError(c, err)
		return
	}
	year, err := strconv.Atoi(c.DefaultQuery("year", strconv.Itoa(time.Now().Year())))
	if err != nil {
		errorResponse(c, codeBadRequest, "invalid year")
		return
	}
	tracking, err := h.trackingForYear(contract, year)
	if err != nil {
		errorResponse(c, codeInternal, err.Error())
		return
	}
	success(c, tracking)
}

func (h *Handlers) trackingForYear(contract *model.Contract, year int) (model.MGTracking, error) {
	periods, err := h.db.ListPeriodsInYear(contract.ID, year)
	if err != nil {
		return model.MGTracking{}, err
	}
	amounts := make([]royalty.PeriodRoyalty, 0, len(periods))
	for _, p := range periods {
		amounts = append(amounts, royalty.PeriodRoyalty{
			Amount:    p.RoyaltyAmount,
			PeriodEnd: p.PeriodEnd,
		})
	}
	return royalty.Track(contract, amounts, time.Now()), nil
}

// sampleRows returns up to limit data rows for the confirmation preview.
func sampleRows(grid *model.RawGrid, table *model.DetectedTable, limit int) [][]string {
	if limit <= 0 {
		limit = 5
	}
	skip := make(map[int]bool, len(table.SkipRows))
	for _, i := range table.SkipRows {
		skip[i] = true
	}

	out := make([][]string, 0, limit)
	for i := table.DataRows.Start; i <= table.DataRows.End && i < len(grid.Rows); i++ {
		if skip[i] || report.IsEmptyRow(grid.Rows[i]) {
			continue
		}
		out = append(out, grid.Rows[i])
		if len(out) >= limit {
			break
		}
	}
	return out
}
