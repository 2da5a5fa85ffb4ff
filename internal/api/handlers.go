package api

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"reitboard/server/internal/alerts"
	"reitboard/server/internal/auth"
	"reitboard/server/internal/database"
	"reitboard/server/internal/importer"
	"reitboard/server/internal/metrics"
	"reitboard/server/internal/models"
)

type Handler struct {
	db       *database.Database
	metrics  *metrics.Calculator
	importer *importer.Importer
	auth     *auth.Service
	logger   *logrus.Logger
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type PropertyRequest struct {
	Name          string  `json:"name" binding:"required"`
	PurchasePrice float64 `json:"purchase_price"`
	UnitCount     int     `json:"unit_count"`
}

// FinancialRequest carries one manually entered financial record. Every
// field left out of the request body stays 0.
type FinancialRequest struct {
	PropertyID     int64  `json:"property_id" binding:"required"`
	ReportingMonth string `json:"reporting_month" binding:"required"`

	GrossRent          float64 `json:"gross_rent"`
	Vacancy            float64 `json:"vacancy"`
	OtherIncome        float64 `json:"other_income"`
	TotalIncome        float64 `json:"total_income"`
	RepairsMaintenance float64 `json:"repairs_maintenance"`
	Utilities          float64 `json:"utilities"`
	PropertyManagement float64 `json:"property_management"`
	PropertyTaxes      float64 `json:"property_taxes"`
	Insurance          float64 `json:"insurance"`
	Marketing          float64 `json:"marketing"`
	Administrative     float64 `json:"administrative"`
	TotalExpenses      float64 `json:"total_expenses"`
	NOI                float64 `json:"noi"`
	DebtService        float64 `json:"debt_service"`
	CashFlow           float64 `json:"cash_flow"`
	Occupancy          float64 `json:"occupancy"`
}

func NewHandler(db *database.Database, authService *auth.Service, logger *logrus.Logger) *Handler {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
	}

	return &Handler{
		db:       db,
		metrics:  metrics.NewCalculator(db, logger),
		importer: importer.NewImporter(db, logger),
		auth:     authService,
		logger:   logger,
	}
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Username and password are required"})
		return
	}

	token, err := h.auth.Authenticate(req.Username, req.Password)
	if err != nil {
		h.logger.WithField("username", req.Username).Warn("Failed login attempt")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token, "username": req.Username})
}

// yearParam reads the year query parameter, defaulting to the current
// year. A false return means a response has already been written.
func (h *Handler) yearParam(c *gin.Context) (int, bool) {
	yearStr := c.DefaultQuery("year", strconv.Itoa(time.Now().Year()))
	year, err := strconv.Atoi(yearStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid year parameter"})
		return 0, false
	}
	return year, true
}

func (h *Handler) GetPortfolioKPIs(c *gin.Context) {
	year, ok := h.yearParam(c)
	if !ok {
		return
	}

	kpis, err := h.metrics.PortfolioKPIs(year)
	if err != nil {
		h.logger.WithError(err).Error("Failed to compute portfolio KPIs")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute portfolio KPIs"})
		return
	}

	c.JSON(http.StatusOK, kpis)
}

func (h *Handler) GetAlerts(c *gin.Context) {
	year, ok := h.yearParam(c)
	if !ok {
		return
	}

	kpis, err := h.metrics.PortfolioKPIs(year)
	if err != nil {
		h.logger.WithError(err).Error("Failed to compute portfolio KPIs")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to evaluate alerts"})
		return
	}

	list := alerts.Evaluate(kpis)
	if list == nil {
		list = []string{}
	}
	c.JSON(http.StatusOK, gin.H{"alerts": list})
}

func (h *Handler) GetMonthlyPerformance(c *gin.Context) {
	year, ok := h.yearParam(c)
	if !ok {
		return
	}

	series, err := h.metrics.MonthlyPerformance(year)
	if err != nil {
		h.logger.WithError(err).Error("Failed to get monthly performance")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get monthly performance"})
		return
	}
	if series == nil {
		series = []models.MonthlyPerformance{}
	}

	c.JSON(http.StatusOK, series)
}

func (h *Handler) GetPropertyPerformance(c *gin.Context) {
	year, ok := h.yearParam(c)
	if !ok {
		return
	}

	rollup, err := h.metrics.PropertyPerformance(year)
	if err != nil {
		h.logger.WithError(err).Error("Failed to get property performance")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get property performance"})
		return
	}
	if rollup == nil {
		rollup = []models.PropertyPerformance{}
	}

	c.JSON(http.StatusOK, rollup)
}

func (h *Handler) GetAllProperties(c *gin.Context) {
	properties, err := h.db.ListProperties()
	if err != nil {
		h.logger.WithError(err).Error("Failed to list properties")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list properties"})
		return
	}
	if properties == nil {
		properties = []models.Property{}
	}

	c.JSON(http.StatusOK, properties)
}

func (h *Handler) CreateProperty(c *gin.Context) {
	var req PropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Property name is required"})
		return
	}
	if req.PurchasePrice < 0 || req.UnitCount < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Purchase price and unit count must not be negative"})
		return
	}

	property := models.Property{
		Name:          req.Name,
		PurchasePrice: req.PurchasePrice,
		UnitCount:     req.UnitCount,
	}
	if err := h.db.CreateProperty(&property); err != nil {
		h.logger.WithError(err).Error("Failed to create property")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create property"})
		return
	}

	c.JSON(http.StatusCreated, property)
}

func (h *Handler) UpsertFinancial(c *gin.Context) {
	var req FinancialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "property_id and reporting_month are required"})
		return
	}

	month, err := importer.ParseReportingMonth(req.ReportingMonth)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "reporting_month must be YYYY-MM-DD"})
		return
	}

	exists, err := h.db.PropertyExists(req.PropertyID)
	if err != nil {
		h.logger.WithError(err).Error("Failed to check property")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save financial record"})
		return
	}
	if !exists {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Unknown property %d", req.PropertyID)})
		return
	}

	rec := &models.MonthlyFinancial{
		PropertyID:         req.PropertyID,
		ReportingMonth:     month,
		GrossRent:          req.GrossRent,
		Vacancy:            req.Vacancy,
		OtherIncome:        req.OtherIncome,
		TotalIncome:        req.TotalIncome,
		RepairsMaintenance: req.RepairsMaintenance,
		Utilities:          req.Utilities,
		PropertyManagement: req.PropertyManagement,
		PropertyTaxes:      req.PropertyTaxes,
		Insurance:          req.Insurance,
		Marketing:          req.Marketing,
		Administrative:     req.Administrative,
		TotalExpenses:      req.TotalExpenses,
		NOI:                req.NOI,
		DebtService:        req.DebtService,
		CashFlow:           req.CashFlow,
		Occupancy:          req.Occupancy,
	}

	if err := h.db.UpsertMonthlyFinancial(rec); err != nil {
		h.logger.WithError(err).Error("Failed to upsert financial record")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save financial record"})
		return
	}

	c.JSON(http.StatusOK, rec)
}

func (h *Handler) DeleteFinancial(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid financial record id"})
		return
	}

	found, err := h.db.DeleteFinancialRecord(id)
	if err != nil {
		h.logger.WithError(err).Error("Failed to delete financial record")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete financial record"})
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "Financial record not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func (h *Handler) ImportFinancials(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A CSV file upload named 'file' is required"})
		return
	}

	src, err := file.Open()
	if err != nil {
		h.logger.WithError(err).Error("Failed to open uploaded file")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read uploaded file"})
		return
	}
	defer src.Close()

	summary, err := h.importer.ImportCSV(src)
	if err != nil {
		h.logger.WithError(err).Error("Failed to import CSV")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, summary)
}

func (h *Handler) ExportMonthlyPerformance(c *gin.Context) {
	year, ok := h.yearParam(c)
	if !ok {
		return
	}

	series, err := h.metrics.MonthlyPerformance(year)
	if err != nil {
		h.logger.WithError(err).Error("Failed to get monthly performance")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to export monthly performance"})
		return
	}

	writeCSVHeader(c, fmt.Sprintf("monthly_performance_%d.csv", year))
	if err := importer.WriteMonthlySeries(c.Writer, series); err != nil {
		h.logger.WithError(err).Error("Failed to write CSV export")
	}
}

func (h *Handler) ExportPropertyPerformance(c *gin.Context) {
	year, ok := h.yearParam(c)
	if !ok {
		return
	}

	rollup, err := h.metrics.PropertyPerformance(year)
	if err != nil {
		h.logger.WithError(err).Error("Failed to get property performance")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to export property performance"})
		return
	}

	writeCSVHeader(c, fmt.Sprintf("property_details_%d.csv", year))
	if err := importer.WritePropertyPerformance(c.Writer, rollup); err != nil {
		h.logger.WithError(err).Error("Failed to write CSV export")
	}
}

func (h *Handler) ExportKPISummary(c *gin.Context) {
	year, ok := h.yearParam(c)
	if !ok {
		return
	}

	kpis, err := h.metrics.PortfolioKPIs(year)
	if err != nil {
		h.logger.WithError(err).Error("Failed to compute portfolio KPIs")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to export KPI summary"})
		return
	}

	writeCSVHeader(c, fmt.Sprintf("kpi_summary_%s.csv", time.Now().Format("20060102")))
	if err := importer.WriteKPISummary(c.Writer, kpis); err != nil {
		h.logger.WithError(err).Error("Failed to write CSV export")
	}
}

func writeCSVHeader(c *gin.Context, filename string) {
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
}
