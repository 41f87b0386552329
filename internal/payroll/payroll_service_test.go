package payroll_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/rrayyhanep/Heaven-receipt/internal/employee"
	employeeerrors "github.com/rrayyhanep/Heaven-receipt/internal/employee/errors"
	"github.com/rrayyhanep/Heaven-receipt/internal/payroll"
	payrollerrors "github.com/rrayyhanep/Heaven-receipt/internal/payroll/errors"
	"github.com/rrayyhanep/Heaven-receipt/internal/shared/apperror"
	"github.com/rrayyhanep/Heaven-receipt/internal/shared/keylock"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRenderer struct {
	renderFn func(w io.Writer, slip payroll.SlipContent) error
	calls    []payroll.SlipContent
}

func (f *fakeRenderer) Render(w io.Writer, slip payroll.SlipContent) error {
	f.calls = append(f.calls, slip)
	if f.renderFn != nil {
		return f.renderFn(w, slip)
	}
	_, err := io.WriteString(w, "%PDF-fake")
	return err
}

var fixedNow = func() time.Time { return time.Date(2026, time.January, 7, 10, 0, 0, 0, time.UTC) }

type serviceDeps struct {
	employees employee.Service
	renderer  *fakeRenderer
	service   payroll.Service
}

func setupServiceTest(t *testing.T) *serviceDeps {
	t.Helper()
	repo := employee.NewMemoryRepository([]employee.Employee{
		{ID: "1767769923992", Name: "Raihan E P", BasicSalary: 4000, PendingBalance: 6000},
	})
	employees := employee.NewService(repo, keylock.NewLocal(), nil)
	renderer := &fakeRenderer{}

	return &serviceDeps{
		employees: employees,
		renderer:  renderer,
		service:   payroll.NewService(employees, renderer, payroll.Options{Now: fixedNow}),
	}
}

func TestPayrollService_GenerateSlip(t *testing.T) {
	ctx := context.Background()

	t.Run("carries the balance forward", func(t *testing.T) {
		deps := setupServiceTest(t)

		doc, err := deps.service.GenerateSlip(ctx, payroll.GenerateSlipRequest{
			EmployeeID: "1767769923992",
			MonthYear:  "January 2026",
			Advance:    500,
		})
		require.NoError(t, err)

		assert.Equal(t, "salary_slip_1767769923992_January_2026.pdf", doc.Filename)
		assert.Equal(t, []byte("%PDF-fake"), doc.Content)
		assert.Equal(t, "4000", doc.Computation.TotalSalary.String())
		assert.Equal(t, "3500", doc.Computation.NetSalary.String())
		assert.Equal(t, "9500", doc.Computation.BalanceToReceive.String())
		assert.Equal(t, 9500.0, doc.PendingBalance)

		require.Len(t, deps.renderer.calls, 1)
		slip := deps.renderer.calls[0]
		assert.Equal(t, "Heaven Furniture", slip.CompanyName)
		assert.Equal(t, "Rs.", slip.CurrencyLabel)
		assert.Equal(t, "Raihan E P", slip.EmployeeName)
		assert.Equal(t, "January 2026", slip.MonthYear)

		got, err := deps.employees.GetByID(ctx, "1767769923992")
		require.NoError(t, err)
		assert.Equal(t, 9500.0, got.PendingBalance)
		assert.Equal(t, 4000.0, got.BasicSalary)
	})

	t.Run("second slip starts from the carried balance", func(t *testing.T) {
		deps := setupServiceTest(t)

		_, err := deps.service.GenerateSlip(ctx, payroll.GenerateSlipRequest{EmployeeID: "1767769923992", Advance: 500})
		require.NoError(t, err)
		doc, err := deps.service.GenerateSlip(ctx, payroll.GenerateSlipRequest{EmployeeID: "1767769923992", LeaveDeduction: 1000})
		require.NoError(t, err)

		assert.Equal(t, "12500", doc.Computation.BalanceToReceive.String())
	})

	t.Run("default month label", func(t *testing.T) {
		deps := setupServiceTest(t)

		doc, err := deps.service.GenerateSlip(ctx, payroll.GenerateSlipRequest{EmployeeID: "1767769923992"})
		require.NoError(t, err)

		assert.Equal(t, "January 2026", doc.MonthYear)
		assert.Equal(t, "January 2026", deps.renderer.calls[0].MonthYear)
	})

	t.Run("unknown employee writes nothing", func(t *testing.T) {
		deps := setupServiceTest(t)

		_, err := deps.service.GenerateSlip(ctx, payroll.GenerateSlipRequest{EmployeeID: "nope"})

		assert.ErrorIs(t, err, employeeerrors.ErrEmployeeNotFound)
		assert.Empty(t, deps.renderer.calls)
	})

	t.Run("render failure writes nothing", func(t *testing.T) {
		deps := setupServiceTest(t)
		deps.renderer.renderFn = func(w io.Writer, slip payroll.SlipContent) error {
			return errors.New("font missing")
		}

		_, err := deps.service.GenerateSlip(ctx, payroll.GenerateSlipRequest{EmployeeID: "1767769923992", Advance: 500})

		assert.ErrorIs(t, err, payrollerrors.ErrRenderFailed)
		httpErr := apperror.ToHTTP(err)
		assert.Equal(t, 500, httpErr.Status)
		assert.Equal(t, apperror.CodeRenderFailure, httpErr.Code)

		got, err := deps.employees.GetByID(ctx, "1767769923992")
		require.NoError(t, err)
		assert.Equal(t, 6000.0, got.PendingBalance)
	})
}

func TestPayrollService_GenerateSlipWithPDF(t *testing.T) {
	repo := employee.NewMemoryRepository([]employee.Employee{{ID: "1", Name: "Raihan E P", BasicSalary: 4000, PendingBalance: 6000}})
	employees := employee.NewService(repo, nil, nil)
	svc := payroll.NewService(employees, payroll.NewPDFRenderer(), payroll.Options{CompanyName: "Heaven Furniture", Now: fixedNow})

	doc, err := svc.GenerateSlip(context.Background(), payroll.GenerateSlipRequest{EmployeeID: "1", MonthYear: "2026-01", Advance: 500})
	require.NoError(t, err)

	assert.True(t, bytes.HasPrefix(doc.Content, []byte("%PDF-")))
	assert.Equal(t, "salary_slip_1_January_2026.pdf", doc.Filename)
}

func TestPayrollService_Preview(t *testing.T) {
	ctx := context.Background()

	t.Run("computes without writing", func(t *testing.T) {
		deps := setupServiceTest(t)

		resp, err := deps.service.Preview(ctx, payroll.PreviewRequest{EmployeeID: "1767769923992", Advance: 500})
		require.NoError(t, err)

		assert.Equal(t, payroll.PreviewResponse{
			EmployeeID:       "1767769923992",
			Name:             "Raihan E P",
			BasicSalary:      4000,
			PendingBalance:   6000,
			Advance:          500,
			LeaveDeduction:   0,
			TotalSalary:      4000,
			NetSalary:        3500,
			BalanceToReceive: 9500,
		}, resp)

		got, err := deps.employees.GetByID(ctx, "1767769923992")
		require.NoError(t, err)
		assert.Equal(t, 6000.0, got.PendingBalance)
		assert.Empty(t, deps.renderer.calls)
	})

	t.Run("unknown employee", func(t *testing.T) {
		deps := setupServiceTest(t)

		_, err := deps.service.Preview(ctx, payroll.PreviewRequest{EmployeeID: "nope"})
		assert.ErrorIs(t, err, employeeerrors.ErrEmployeeNotFound)
	})
}
