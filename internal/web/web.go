// Package web serves the browser pages. Pages are rendered from the roster
// and talk to the JSON API for every change.
package web

import (
	"embed"
	"errors"
	"html/template"
	"net/http"
	"time"

	"github.com/rrayyhanep/Heaven-receipt/internal/employee"
	employeeerrors "github.com/rrayyhanep/Heaven-receipt/internal/employee/errors"
	"github.com/rrayyhanep/Heaven-receipt/internal/shared/apperror"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Templates parses the embedded page set. Pages are addressed by file name.
func Templates() (*template.Template, error) {
	return template.New("pages").
		Funcs(template.FuncMap{
			"money": func(v float64) string {
				return decimal.NewFromFloat(v).StringFixed(2)
			},
		}).
		ParseFS(templatesFS, "templates/*.html")
}

type pageData struct {
	Title         string
	CompanyName   string
	CurrencyLabel string
	MonthYear     string
	Employees     []employee.EmployeeResponse
	Employee      *employee.EmployeeResponse
	Error         string

	// IdempotencyKey is sent with the slip request rendered on this page.
	IdempotencyKey string
}

type Options struct {
	CompanyName   string
	CurrencyLabel string
	Now           func() time.Time
	// NewKey mints the per-page Idempotency-Key. Defaults to a UUID.
	NewKey        func() string
}

type Handler struct {
	employees employee.Service
	opts      Options
	logger    *zap.Logger
}

func NewHandler(employees employee.Service, opts Options, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("web.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("web.handler")
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NewKey == nil {
		opts.NewKey = uuid.NewString
	}
	return &Handler{employees: employees, opts: opts, logger: l}
}

func (h *Handler) page(title string) pageData {
	return pageData{
		Title:         title,
		CompanyName:   h.opts.CompanyName,
		CurrencyLabel: h.opts.CurrencyLabel,
	}
}

func (h *Handler) renderError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("page request failed",
		zap.String("path", c.Request.URL.Path),
		zap.Int("status", httpErr.Status),
		zap.Error(err),
	)

	data := h.page("Something went wrong")
	if errors.Is(err, employeeerrors.ErrEmployeeNotFound) {
		data.Title = "Employee not found"
	}
	data.Error = httpErr.Message
	c.HTML(httpErr.Status, "error.html", data)
}

// Index is the slip generator.
func (h *Handler) Index(c *gin.Context) {
	empls, err := h.employees.GetAll(c.Request.Context())
	if err != nil {
		h.renderError(c, err)
		return
	}

	data := h.page("Salary Slip Generator")
	data.Employees = empls
	data.MonthYear = h.opts.Now().Format("2006-01")
	data.IdempotencyKey = h.opts.NewKey()
	c.HTML(http.StatusOK, "index.html", data)
}

func (h *Handler) Employees(c *gin.Context) {
	empls, err := h.employees.GetAll(c.Request.Context())
	if err != nil {
		h.renderError(c, err)
		return
	}

	data := h.page("Employees")
	data.Employees = empls
	c.HTML(http.StatusOK, "employees.html", data)
}

func (h *Handler) EditEmployee(c *gin.Context) {
	empl, err := h.employees.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.renderError(c, err)
		return
	}

	data := h.page("Edit Employee")
	data.Employee = &empl
	c.HTML(http.StatusOK, "edit_employee.html", data)
}

// RegisterRoutes installs the page templates on r and mounts the pages.
func RegisterRoutes(r *gin.Engine, handler *Handler) error {
	tmpl, err := Templates()
	if err != nil {
		return err
	}
	r.SetHTMLTemplate(tmpl)

	r.GET("/", handler.Index)
	ui := r.Group("/ui")
	{
		ui.GET("/employees", handler.Employees)
		ui.GET("/employees/:id/edit", handler.EditEmployee)
	}
	return nil
}
