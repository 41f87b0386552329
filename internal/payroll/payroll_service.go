package payroll

import (
	"bytes"
	"context"
	"time"

	"github.com/rrayyhanep/Heaven-receipt/internal/employee"
	payrollerrors "github.com/rrayyhanep/Heaven-receipt/internal/payroll/errors"
	"github.com/rrayyhanep/Heaven-receipt/internal/shared/contextutil"

	"go.uber.org/zap"
)

const (
	DefaultCompanyName   = "Heaven Furniture"
	DefaultCurrencyLabel = "Rs."
)

// EmployeeStore is the part of the employee service slip generation needs.
type EmployeeStore interface {
	GetByID(ctx context.Context, id string) (employee.EmployeeResponse, error)
	Modify(ctx context.Context, id string, fn employee.ModifyFunc) (employee.EmployeeResponse, error)
}

type Service interface {
	// GenerateSlip renders the slip and carries the balance forward into the
	// employee's pending balance. Nothing is written if rendering fails.
	GenerateSlip(ctx context.Context, req GenerateSlipRequest) (SlipDocument, error)
	Preview(ctx context.Context, req PreviewRequest) (PreviewResponse, error)
}

type Options struct {
	CompanyName   string
	CurrencyLabel string
	// Now defaults to time.Now.
	Now func() time.Time
}

type service struct {
	employees EmployeeStore
	renderer  Renderer
	opts      Options
	logger    *zap.Logger
}

func NewService(employees EmployeeStore, renderer Renderer, opts Options, logger ...*zap.Logger) Service {
	l := zap.L().Named("payroll.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("payroll.service")
	}
	if opts.CompanyName == "" {
		opts.CompanyName = DefaultCompanyName
	}
	if opts.CurrencyLabel == "" {
		opts.CurrencyLabel = DefaultCurrencyLabel
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &service{employees: employees, renderer: renderer, opts: opts, logger: l}
}

func (s *service) GenerateSlip(ctx context.Context, req GenerateSlipRequest) (SlipDocument, error) {
	month := FormatMonthYear(req.MonthYear, s.opts.Now())
	log := contextutil.Tagged(ctx, s.logger).With(zap.String("month", month))
	log.Debug("generate slip requested", zap.String("employee_id", req.EmployeeID))

	var doc SlipDocument
	updated, err := s.employees.Modify(ctx, req.EmployeeID, func(cur employee.EmployeeResponse) (employee.UpdateEmployeeRequest, error) {
		comp := Compute(cur.BasicSalary, cur.PendingBalance, req.Advance, req.LeaveDeduction)

		var buf bytes.Buffer
		err := s.renderer.Render(&buf, SlipContent{
			CompanyName:   s.opts.CompanyName,
			CurrencyLabel: s.opts.CurrencyLabel,
			MonthYear:     month,
			EmployeeName:  cur.Name,
			Figures:       comp,
		})
		if err != nil {
			log.Error("render slip failed", zap.String("employee_id", cur.ID), zap.Error(err))
			return employee.UpdateEmployeeRequest{}, payrollerrors.ErrRenderFailed.WithCause(err)
		}

		doc = SlipDocument{
			Filename:    SlipFilename(cur.ID, month),
			Content:     buf.Bytes(),
			EmployeeID:  cur.ID,
			MonthYear:   month,
			Computation: comp,
		}
		balance := comp.BalanceToReceive.InexactFloat64()
		return employee.UpdateEmployeeRequest{PendingBalance: &balance}, nil
	})
	if err != nil {
		return SlipDocument{}, err
	}

	doc.PendingBalance = updated.PendingBalance
	log.Info("generate slip success",
		zap.String("employee_id", updated.ID),
		zap.Float64("pending_balance", updated.PendingBalance),
	)
	return doc, nil
}

func (s *service) Preview(ctx context.Context, req PreviewRequest) (PreviewResponse, error) {
	empl, err := s.employees.GetByID(ctx, req.EmployeeID)
	if err != nil {
		return PreviewResponse{}, err
	}

	comp := Compute(empl.BasicSalary, empl.PendingBalance, req.Advance, req.LeaveDeduction)
	return mapToPreview(empl.ID, empl.Name, comp), nil
}
