package employee

// Employee is the stored record. The same struct is persisted by every
// backend, so it carries gorm, json (file store) and bson (mongo) tags.
type Employee struct {
	ID             string  `gorm:"type:varchar(64);primaryKey" json:"id" bson:"_id"`
	Name           string  `gorm:"type:varchar(200);not null" json:"name" bson:"name"`
	BasicSalary    float64 `gorm:"type:numeric(14,2);not null" json:"basicSalary" bson:"basicSalary"`
	PendingBalance float64 `gorm:"type:numeric(14,2);not null" json:"pendingBalance" bson:"pendingBalance"`
}

// Patch is a partial update. Nil fields are left untouched.
type Patch struct {
	Name           *string
	BasicSalary    *float64
	PendingBalance *float64
}

func (p Patch) IsEmpty() bool {
	return p.Name == nil && p.BasicSalary == nil && p.PendingBalance == nil
}

func (p Patch) apply(e *Employee) {
	if p.Name != nil {
		e.Name = *p.Name
	}
	if p.BasicSalary != nil {
		e.BasicSalary = *p.BasicSalary
	}
	if p.PendingBalance != nil {
		e.PendingBalance = *p.PendingBalance
	}
}

// columns maps the patch onto gorm column names.
func (p Patch) columns() map[string]any {
	cols := make(map[string]any, 3)
	if p.Name != nil {
		cols["name"] = *p.Name
	}
	if p.BasicSalary != nil {
		cols["basic_salary"] = *p.BasicSalary
	}
	if p.PendingBalance != nil {
		cols["pending_balance"] = *p.PendingBalance
	}
	return cols
}
