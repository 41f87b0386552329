package employee_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rrayyhanep/Heaven-receipt/internal/employee"
	employeeerrors "github.com/rrayyhanep/Heaven-receipt/internal/employee/errors"
	"github.com/rrayyhanep/Heaven-receipt/internal/shared/apperror"
	"github.com/rrayyhanep/Heaven-receipt/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEmployeeService struct {
	CreateFn  func(ctx context.Context, req employee.CreateEmployeeRequest) (employee.EmployeeResponse, error)
	GetAllFn  func(ctx context.Context) ([]employee.EmployeeResponse, error)
	GetByIDFn func(ctx context.Context, id string) (employee.EmployeeResponse, error)
	UpdateFn  func(ctx context.Context, id string, req employee.UpdateEmployeeRequest) (employee.EmployeeResponse, error)
	DeleteFn  func(ctx context.Context, id string) (employee.EmployeeResponse, error)
	ModifyFn  func(ctx context.Context, id string, fn employee.ModifyFunc) (employee.EmployeeResponse, error)
}

func (f *fakeEmployeeService) Create(ctx context.Context, req employee.CreateEmployeeRequest) (employee.EmployeeResponse, error) {
	return f.CreateFn(ctx, req)
}
func (f *fakeEmployeeService) GetAll(ctx context.Context) ([]employee.EmployeeResponse, error) {
	return f.GetAllFn(ctx)
}
func (f *fakeEmployeeService) GetByID(ctx context.Context, id string) (employee.EmployeeResponse, error) {
	return f.GetByIDFn(ctx, id)
}
func (f *fakeEmployeeService) Update(ctx context.Context, id string, req employee.UpdateEmployeeRequest) (employee.EmployeeResponse, error) {
	return f.UpdateFn(ctx, id, req)
}
func (f *fakeEmployeeService) Delete(ctx context.Context, id string) (employee.EmployeeResponse, error) {
	return f.DeleteFn(ctx, id)
}
func (f *fakeEmployeeService) Modify(ctx context.Context, id string, fn employee.ModifyFunc) (employee.EmployeeResponse, error) {
	return f.ModifyFn(ctx, id, fn)
}

func setupRouter(svc employee.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	employee.RegisterRoutes(r.Group("/api"), employee.NewHandler(svc))
	return r
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) response.ErrorBody {
	t.Helper()
	var body response.ErrorBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

// NewHandler alone must be enough for the request types' validation tags.
func TestNewHandler_InstallsBindingRules(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := employee.NewHandler(&fakeEmployeeService{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/employees", strings.NewReader(`{"name":"  ","basicSalary":1}`))
	c.Request.Header.Set("Content-Type", "application/json")

	require.NotPanics(t, func() { h.Create(c) })
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Name is invalid", decodeError(t, w).Message)
}

func TestEmployeeHandler_Create(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		svc := &fakeEmployeeService{
			CreateFn: func(ctx context.Context, req employee.CreateEmployeeRequest) (employee.EmployeeResponse, error) {
				assert.Equal(t, "Raihan E P", req.Name)
				assert.Equal(t, 4000.0, req.BasicSalary)
				assert.Equal(t, 6000.0, req.PendingBalance)
				return employee.EmployeeResponse{
					ID: "1767769923992", Name: req.Name, BasicSalary: req.BasicSalary, PendingBalance: req.PendingBalance,
				}, nil
			},
		}

		h := employee.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)

		body := `{"name":"Raihan E P","basicSalary":4000,"pendingBalance":6000}`
		req := httptest.NewRequest(http.MethodPost, "/api/employees", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		c.Request = req

		h.Create(c)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.JSONEq(t,
			`{"id":"1767769923992","name":"Raihan E P","basicSalary":4000,"pendingBalance":6000}`,
			w.Body.String())
	})

	t.Run("missing name", func(t *testing.T) {
		r := setupRouter(&fakeEmployeeService{})
		w := httptest.NewRecorder()

		req := httptest.NewRequest(http.MethodPost, "/api/employees", strings.NewReader(`{"basicSalary":4000}`))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		body := decodeError(t, w)
		assert.Equal(t, "Name is required", body.Message)
		assert.Equal(t, apperror.CodeInvalidInput, body.Code)
	})

	t.Run("blank name", func(t *testing.T) {
		r := setupRouter(&fakeEmployeeService{})
		w := httptest.NewRecorder()

		req := httptest.NewRequest(http.MethodPost, "/api/employees", strings.NewReader(`{"name":"   ","basicSalary":4000}`))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Name is invalid", decodeError(t, w).Message)
	})

	t.Run("name is trimmed", func(t *testing.T) {
		svc := &fakeEmployeeService{
			CreateFn: func(ctx context.Context, req employee.CreateEmployeeRequest) (employee.EmployeeResponse, error) {
				assert.Equal(t, "Raihan E P", req.Name)
				return employee.EmployeeResponse{ID: "1", Name: req.Name}, nil
			},
		}
		r := setupRouter(svc)
		w := httptest.NewRecorder()

		req := httptest.NewRequest(http.MethodPost, "/api/employees", strings.NewReader(`{"name":"  Raihan E P "}`))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("negative salary", func(t *testing.T) {
		r := setupRouter(&fakeEmployeeService{})
		w := httptest.NewRecorder()

		req := httptest.NewRequest(http.MethodPost, "/api/employees", strings.NewReader(`{"name":"A","basicSalary":-1}`))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Basic Salary is invalid", decodeError(t, w).Message)
	})

	t.Run("malformed json", func(t *testing.T) {
		r := setupRouter(&fakeEmployeeService{})
		w := httptest.NewRecorder()

		req := httptest.NewRequest(http.MethodPost, "/api/employees", strings.NewReader(`{"name":`))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("service error hides cause", func(t *testing.T) {
		svc := &fakeEmployeeService{
			CreateFn: func(ctx context.Context, req employee.CreateEmployeeRequest) (employee.EmployeeResponse, error) {
				return employee.EmployeeResponse{}, errors.New("database connection failed")
			},
		}
		r := setupRouter(svc)
		w := httptest.NewRecorder()

		req := httptest.NewRequest(http.MethodPost, "/api/employees", strings.NewReader(`{"name":"A","basicSalary":1}`))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, "Internal server error", decodeError(t, w).Message)
		assert.NotContains(t, w.Body.String(), "database connection failed")
	})
}

func TestEmployeeHandler_GetAll(t *testing.T) {
	list := []employee.EmployeeResponse{
		{ID: "1", Name: "Raihan E P", BasicSalary: 4000},
		{ID: "2", Name: "Anu", BasicSalary: 3000},
	}
	svc := &fakeEmployeeService{
		GetAllFn: func(ctx context.Context) ([]employee.EmployeeResponse, error) {
			return list, nil
		},
	}
	r := setupRouter(svc)

	t.Run("all", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/employees", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		var got []employee.EmployeeResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Equal(t, list, got)
	})

	t.Run("name filter", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/employees?q=RAI", nil))

		var got []employee.EmployeeResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		require.Len(t, got, 1)
		assert.Equal(t, "1", got[0].ID)
	})

	t.Run("empty roster is []", func(t *testing.T) {
		r := setupRouter(&fakeEmployeeService{
			GetAllFn: func(ctx context.Context) ([]employee.EmployeeResponse, error) {
				return []employee.EmployeeResponse{}, nil
			},
		})
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/employees", nil))

		assert.Equal(t, "[]", w.Body.String())
	})
}

func TestEmployeeHandler_GetById(t *testing.T) {
	svc := &fakeEmployeeService{
		GetByIDFn: func(ctx context.Context, id string) (employee.EmployeeResponse, error) {
			if id == "1" {
				return employee.EmployeeResponse{ID: "1", Name: "Raihan E P"}, nil
			}
			return employee.EmployeeResponse{}, employeeerrors.ErrEmployeeNotFound
		},
	}
	r := setupRouter(svc)

	t.Run("found", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/employees/1", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Raihan E P")
	})

	t.Run("not found", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/employees/99", nil))

		assert.Equal(t, http.StatusNotFound, w.Code)
		body := decodeError(t, w)
		assert.Equal(t, "Employee not found", body.Message)
		assert.Equal(t, apperror.CodeNotFound, body.Code)
	})
}

func TestEmployeeHandler_Update(t *testing.T) {
	t.Run("partial body", func(t *testing.T) {
		svc := &fakeEmployeeService{
			UpdateFn: func(ctx context.Context, id string, req employee.UpdateEmployeeRequest) (employee.EmployeeResponse, error) {
				assert.Equal(t, "1", id)
				assert.Nil(t, req.Name)
				assert.Nil(t, req.PendingBalance)
				require.NotNil(t, req.BasicSalary)
				assert.Equal(t, 4500.0, *req.BasicSalary)
				return employee.EmployeeResponse{ID: id, Name: "Raihan E P", BasicSalary: 4500, PendingBalance: 6000}, nil
			},
		}
		r := setupRouter(svc)
		w := httptest.NewRecorder()

		req := httptest.NewRequest(http.MethodPut, "/api/employees/1", strings.NewReader(`{"basicSalary":4500}`))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"id":"1","name":"Raihan E P","basicSalary":4500,"pendingBalance":6000}`, w.Body.String())
	})

	t.Run("empty name rejected", func(t *testing.T) {
		r := setupRouter(&fakeEmployeeService{})
		w := httptest.NewRecorder()

		req := httptest.NewRequest(http.MethodPut, "/api/employees/1", strings.NewReader(`{"name":""}`))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("busy", func(t *testing.T) {
		svc := &fakeEmployeeService{
			UpdateFn: func(ctx context.Context, id string, req employee.UpdateEmployeeRequest) (employee.EmployeeResponse, error) {
				return employee.EmployeeResponse{}, employeeerrors.ErrEmployeeBusy
			},
		}
		r := setupRouter(svc)
		w := httptest.NewRecorder()

		req := httptest.NewRequest(http.MethodPut, "/api/employees/1", strings.NewReader(`{"name":"B"}`))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})
}

func TestEmployeeHandler_Delete(t *testing.T) {
	svc := &fakeEmployeeService{
		DeleteFn: func(ctx context.Context, id string) (employee.EmployeeResponse, error) {
			if id == "1" {
				return employee.EmployeeResponse{ID: "1", Name: "Raihan E P"}, nil
			}
			return employee.EmployeeResponse{}, employeeerrors.ErrEmployeeNotFound
		},
	}
	r := setupRouter(svc)

	t.Run("returns removed record", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/employees/1", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"id":"1"`)
	})

	t.Run("not found", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/employees/2", nil))

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
