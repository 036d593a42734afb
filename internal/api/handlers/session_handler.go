package handlers

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/rudylameme/bvp-planning-sub000/internal/domain"
	"github.com/rudylameme/bvp-planning-sub000/internal/service"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type SessionHandler struct {
	service *service.SessionService
}

func NewSessionHandler(service *service.SessionService) *SessionHandler {
	return &SessionHandler{service: service}
}

// CreateSession opens a new planning wizard
func (h *SessionHandler) CreateSession(c *gin.Context) {
	var in service.CreateSessionInput
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&in); err != nil {
			badRequest(c, "invalid request body")
			return
		}
	}

	sess, err := h.service.CreateSession(c.Request.Context(), in)
	if err != nil {
		errorResponse(c, err)
		return
	}
	c.JSON(http.StatusCreated, sess)
}

// ListSessions returns the stored sessions, most recently updated first
func (h *SessionHandler) ListSessions(c *gin.Context) {
	sessions, err := h.service.ListSessions(c.Request.Context())
	if err != nil {
		errorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sessions": sessions})
}

func (h *SessionHandler) GetSession(c *gin.Context) {
	sess, err := h.service.GetSession(c.Request.Context(), c.Param("id"))
	if err != nil {
		errorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, sess)
}

func (h *SessionHandler) DeleteSession(c *gin.Context) {
	if err := h.service.DeleteSession(c.Request.Context(), c.Param("id")); err != nil {
		errorResponse(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ImportHandoff creates a session from a hand-off file sent as the request
// body or as the multipart "file" field
func (h *SessionHandler) ImportHandoff(c *gin.Context) {
	body := c.Request.Body
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		fh, err := c.FormFile("file")
		if err != nil {
			badRequest(c, "file is required")
			return
		}
		f, err := fh.Open()
		if err != nil {
			errorResponse(c, err)
			return
		}
		defer f.Close()
		body = f
	}

	sess, err := h.service.ImportHandoff(c.Request.Context(), body)
	if err != nil {
		errorResponse(c, err)
		return
	}
	c.JSON(http.StatusCreated, sess)
}

// ImportSales uploads the sales history export
func (h *SessionHandler) ImportSales(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		badRequest(c, "file is required")
		return
	}
	f, err := fh.Open()
	if err != nil {
		errorResponse(c, err)
		return
	}
	defer f.Close()

	sess, err := h.service.ImportSales(c.Request.Context(), c.Param("id"), filepath.Base(fh.Filename), f)
	if err != nil {
		errorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, sess)
}

// ImportTraffic uploads the ticket counts of one comparison week
func (h *SessionHandler) ImportTraffic(c *gin.Context) {
	week, err := domain.ParseWeekOffset(c.PostForm("week"))
	if err != nil {
		errorResponse(c, domain.ValidationErrors{{Field: "week", Message: err.Error()}})
		return
	}
	var profile domain.WeightingProfile
	if raw := c.PostForm("profile"); raw != "" {
		if profile, err = domain.ParseWeightingProfile(raw); err != nil {
			errorResponse(c, domain.ValidationErrors{{Field: "profile", Message: err.Error()}})
			return
		}
	}

	fh, err := c.FormFile("file")
	if err != nil {
		badRequest(c, "file is required")
		return
	}
	f, err := fh.Open()
	if err != nil {
		errorResponse(c, err)
		return
	}
	defer f.Close()

	sess, err := h.service.ImportTraffic(c.Request.Context(), c.Param("id"), week, profile, filepath.Base(fh.Filename), f)
	if err != nil {
		errorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, sess)
}

type driveImportRequest struct {
	FolderID string `json:"folder_id"`
}

// ImportFromDrive pulls the exports of a Google Drive folder
func (h *SessionHandler) ImportFromDrive(c *gin.Context) {
	var req driveImportRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "invalid request body")
			return
		}
	}

	sess, report, err := h.service.ImportFromDrive(c.Request.Context(), c.Param("id"), req.FolderID)
	if err != nil {
		errorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": sess, "report": report})
}

type modeRequest struct {
	Mode    string `json:"mode"`
	Profile string `json:"profile"`
}

// SetMode changes the estimation mode and, optionally, the weighting profile
func (h *SessionHandler) SetMode(c *gin.Context) {
	var req modeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	if req.Mode == "" && req.Profile == "" {
		errorResponse(c, domain.ValidationErrors{{Field: "mode", Message: "is required"}})
		return
	}

	ctx := c.Request.Context()
	id := c.Param("id")
	var sess *domain.Session
	if req.Profile != "" {
		profile, err := domain.ParseWeightingProfile(req.Profile)
		if err != nil {
			errorResponse(c, domain.ValidationErrors{{Field: "profile", Message: err.Error()}})
			return
		}
		if sess, err = h.service.SetProfile(ctx, id, profile); err != nil {
			errorResponse(c, err)
			return
		}
	}
	if req.Mode != "" {
		mode, err := domain.ParseEstimationMode(req.Mode)
		if err != nil {
			errorResponse(c, domain.ValidationErrors{{Field: "mode", Message: err.Error()}})
			return
		}
		if sess, err = h.service.SetMode(ctx, id, mode); err != nil {
			errorResponse(c, err)
			return
		}
	}
	c.JSON(http.StatusOK, sess)
}

func (h *SessionHandler) ListProducts(c *gin.Context) {
	sess, err := h.service.GetSession(c.Request.Context(), c.Param("id"))
	if err != nil {
		errorResponse(c, err)
		return
	}
	products := sess.Products
	if products == nil {
		products = []domain.Product{}
	}
	c.JSON(http.StatusOK, gin.H{"products": products, "warnings": sess.Warnings})
}

func (h *SessionHandler) AddProduct(c *gin.Context) {
	var in service.CustomProductInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	_, product, err := h.service.AddCustomProduct(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		errorResponse(c, err)
		return
	}
	c.JSON(http.StatusCreated, product)
}

func (h *SessionHandler) UpdateProduct(c *gin.Context) {
	var u service.ProductUpdate
	if err := c.ShouldBindJSON(&u); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	productID := c.Param("productId")
	sess, err := h.service.UpdateProduct(c.Request.Context(), c.Param("id"), productID, u)
	if err != nil {
		errorResponse(c, err)
		return
	}
	p, _ := sess.Product(productID)
	c.JSON(http.StatusOK, p)
}

func (h *SessionHandler) DeleteProduct(c *gin.Context) {
	if _, err := h.service.DeleteProduct(c.Request.Context(), c.Param("id"), c.Param("productId")); err != nil {
		errorResponse(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// SetClosures replaces the closures of the planned week
func (h *SessionHandler) SetClosures(c *gin.Context) {
	var closures domain.ClosureConfig
	if err := c.ShouldBindJSON(&closures); err != nil {
		badRequest(c, fmt.Sprintf("invalid closures: %v", err))
		return
	}

	sess, err := h.service.SetClosures(c.Request.Context(), c.Param("id"), closures)
	if err != nil {
		errorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, sess.Week)
}

type planResponse struct {
	SessionID string `json:"session_id"`
	*domain.Plan
}

func (h *SessionHandler) GetPlan(c *gin.Context) {
	id := c.Param("id")
	plan, err := h.service.Plan(c.Request.Context(), id)
	if err != nil {
		errorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, planResponse{SessionID: id, Plan: plan})
}

type variantRequest struct {
	Shelf   string `json:"shelf" binding:"required"`
	Day     string `json:"day" binding:"required"`
	Variant string `json:"variant"`
}

// SetVariant applies a variant to one shelf on one day
func (h *SessionHandler) SetVariant(c *gin.Context) {
	var req variantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "shelf and day are required")
		return
	}
	shelf, day, err := parseScope(req.Shelf, req.Day)
	if err != nil {
		errorResponse(c, err)
		return
	}
	variant, err := domain.ParseVariant(req.Variant)
	if err != nil {
		errorResponse(c, domain.ValidationErrors{{Field: "variant", Message: err.Error()}})
		return
	}

	id := c.Param("id")
	plan, err := h.service.SetVariant(c.Request.Context(), id, shelf, day, variant)
	if err != nil {
		errorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, planResponse{SessionID: id, Plan: plan})
}

type overrideRequest struct {
	Shelf     string `json:"shelf" binding:"required"`
	Day       string `json:"day" binding:"required"`
	ProductID string `json:"product_id" binding:"required"`
	Quantity  *int   `json:"quantity"`
}

// SetOverride sets the quantity of one product cell; a null quantity clears it
func (h *SessionHandler) SetOverride(c *gin.Context) {
	var req overrideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "shelf, day and product_id are required")
		return
	}
	shelf, day, err := parseScope(req.Shelf, req.Day)
	if err != nil {
		errorResponse(c, err)
		return
	}

	id := c.Param("id")
	plan, err := h.service.SetOverride(c.Request.Context(), id, shelf, day, req.ProductID, req.Quantity)
	if err != nil {
		errorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, planResponse{SessionID: id, Plan: plan})
}

// ExportHandoff downloads the hand-off file of the session
func (h *SessionHandler) ExportHandoff(c *gin.Context) {
	data, key, err := h.service.ExportHandoff(c.Request.Context(), c.Param("id"))
	if err != nil {
		errorResponse(c, err)
		return
	}
	log.Debug().Str("key", key).Msg("hand-off stored")
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filepath.Base(key)))
	c.Header("X-Export-Key", key)
	c.Data(http.StatusOK, "application/json", data)
}

// Workbook downloads the print workbook of the plan
func (h *SessionHandler) Workbook(c *gin.Context) {
	id := c.Param("id")
	data, err := h.service.Workbook(c.Request.Context(), id)
	if err != nil {
		errorResponse(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="plan-%s.xlsx"`, id))
	c.Data(http.StatusOK, xlsxContentType, data)
}

func parseScope(rawShelf, rawDay string) (domain.ShelfCategory, domain.Day, error) {
	var errs domain.ValidationErrors
	shelf, ok := domain.ParseShelf(rawShelf)
	if !ok {
		errs = append(errs, domain.ValidationError{Field: "shelf", Message: fmt.Sprintf("unknown shelf %q", rawShelf)})
	}
	day, err := domain.ParseDay(rawDay)
	if err != nil {
		errs = append(errs, domain.ValidationError{Field: "day", Message: err.Error()})
	}
	if len(errs) > 0 {
		return "", 0, errs
	}
	return shelf, day, nil
}
