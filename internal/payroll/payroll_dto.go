package payroll

type GenerateSlipRequest struct {
	EmployeeID     string  `json:"employeeId" binding:"required"`
	MonthYear      string  `json:"monthYear"`
	Advance        float64 `json:"advance"`
	LeaveDeduction float64 `json:"leaveDeduction"`
}

type PreviewRequest struct {
	EmployeeID     string  `json:"employeeId" binding:"required"`
	Advance        float64 `json:"advance"`
	LeaveDeduction float64 `json:"leaveDeduction"`
}

type PreviewResponse struct {
	EmployeeID       string  `json:"employeeId"`
	Name             string  `json:"name"`
	BasicSalary      float64 `json:"basicSalary"`
	PendingBalance   float64 `json:"pendingBalance"`
	Advance          float64 `json:"advance"`
	LeaveDeduction   float64 `json:"leaveDeduction"`
	TotalSalary      float64 `json:"totalSalary"`
	NetSalary        float64 `json:"netSalary"`
	BalanceToReceive float64 `json:"balanceToReceive"`
}

// SlipDocument is a rendered slip plus what went into it.
type SlipDocument struct {
	Filename    string
	Content     []byte
	EmployeeID  string
	MonthYear   string
	Computation Computation
	// PendingBalance is the employee's balance after the carry-forward.
	PendingBalance float64
}

func mapToPreview(id, name string, comp Computation) PreviewResponse {
	return PreviewResponse{
		EmployeeID:       id,
		Name:             name,
		BasicSalary:      comp.BasicSalary.InexactFloat64(),
		PendingBalance:   comp.PendingBalance.InexactFloat64(),
		Advance:          comp.Advance.InexactFloat64(),
		LeaveDeduction:   comp.LeaveDeduction.InexactFloat64(),
		TotalSalary:      comp.TotalSalary.InexactFloat64(),
		NetSalary:        comp.NetSalary.InexactFloat64(),
		BalanceToReceive: comp.BalanceToReceive.InexactFloat64(),
	}
}
