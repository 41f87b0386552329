package employee

import (
	"net/http"
	"strings"

	"github.com/rrayyhanep/Heaven-receipt/internal/shared/apperror"
	"github.com/rrayyhanep/Heaven-receipt/internal/shared/contextutil"
	"github.com/rrayyhanep/Heaven-receipt/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

// NewHandler also installs the binding rules its request types rely on.
func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	apperror.Init()

	l := zap.L().Named("employee.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("employee.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) log(c *gin.Context) *zap.Logger {
	return contextutil.Tagged(c.Request.Context(), h.logger)
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	l := h.log(c).With(
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
		zap.Error(err),
	)
	if httpErr.Status >= http.StatusInternalServerError {
		l.Error("employee request failed")
	} else {
		l.Warn("employee request failed")
	}
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

// bind decodes and validates the JSON body, writing the 400 itself.
func (h *Handler) bind(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		h.writeServiceError(c, apperror.MapValidationError(err))
		return false
	}
	return true
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateEmployeeRequest
	if !h.bind(c, &req) {
		return
	}
	req.Name = strings.TrimSpace(req.Name)

	resp, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, resp)
}

// GetAll lists the roster. ?q= keeps employees whose name contains q,
// ignoring case.
func (h *Handler) GetAll(c *gin.Context) {
	resp, err := h.service.GetAll(c.Request.Context())
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	if q := strings.ToLower(strings.TrimSpace(c.Query("q"))); q != "" {
		matched := make([]EmployeeResponse, 0, len(resp))
		for _, e := range resp {
			if strings.Contains(strings.ToLower(e.Name), q) {
				matched = append(matched, e)
			}
		}
		resp = matched
	}

	response.Success(c, http.StatusOK, resp)
}

func (h *Handler) GetById(c *gin.Context) {
	resp, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp)
}

// Update merges the fields present in the body; absent ones are kept.
func (h *Handler) Update(c *gin.Context) {
	var req UpdateEmployeeRequest
	if !h.bind(c, &req) {
		return
	}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		req.Name = &name
	}

	resp, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp)
}

// Delete answers with the record that was removed.
func (h *Handler) Delete(c *gin.Context) {
	removed, err := h.service.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, removed)
}
