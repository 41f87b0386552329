package employee

type CreateEmployeeRequest struct {
	Name           string  `json:"name" binding:"required,notblank"`
	BasicSalary    float64 `json:"basicSalary" binding:"gte=0"`
	PendingBalance float64 `json:"pendingBalance"`
}

// UpdateEmployeeRequest is shallow-merged over the stored record; absent
// fields keep their current value.
type UpdateEmployeeRequest struct {
	Name           *string  `json:"name" binding:"omitempty,notblank"`
	BasicSalary    *float64 `json:"basicSalary" binding:"omitempty,gte=0"`
	PendingBalance *float64 `json:"pendingBalance"`
}

type EmployeeResponse struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	BasicSalary    float64 `json:"basicSalary"`
	PendingBalance float64 `json:"pendingBalance"`
}

func (r UpdateEmployeeRequest) patch() Patch {
	return Patch{
		Name:           r.Name,
		BasicSalary:    r.BasicSalary,
		PendingBalance: r.PendingBalance,
	}
}
