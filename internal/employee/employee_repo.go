package employee

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrRecordNotFound is returned by the memory and file repositories. The gorm
// and mongo repositories return their driver's own not-found error, and the
// service maps all of them.
var ErrRecordNotFound = errors.New("employee record not found")

// Repository is the employee store. Writes are last-write-wins: no backend
// checks versions.
//
//go:generate mockgen -source=employee_repo.go -destination=mock/employee_repo_mock.go -package=mock
type Repository interface {
	FindAll(ctx context.Context) ([]Employee, error)
	FindByID(ctx context.Context, id string) (*Employee, error)
	// Create assigns empl.ID when it is empty.
	Create(ctx context.Context, empl *Employee) error
	Update(ctx context.Context, id string, patch Patch) (*Employee, error)
	// Delete returns the removed record.
	Delete(ctx context.Context, id string) (*Employee, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns the PostgreSQL-backed store.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// AutoMigrate creates or alters the employees table.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&Employee{})
}

func (r *repository) FindAll(ctx context.Context) ([]Employee, error) {
	var empls []Employee
	err := r.db.WithContext(ctx).
		Order("name ASC").
		Find(&empls).Error
	return empls, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*Employee, error) {
	var empl Employee
	err := r.db.WithContext(ctx).
		First(&empl, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &empl, nil
}

func (r *repository) Create(ctx context.Context, empl *Employee) error {
	if empl.ID == "" {
		empl.ID = uuid.NewString()
	}
	return r.db.WithContext(ctx).Create(empl).Error
}

func (r *repository) Update(ctx context.Context, id string, patch Patch) (*Employee, error) {
	if patch.IsEmpty() {
		return r.FindByID(ctx, id)
	}

	res := r.db.WithContext(ctx).
		Model(&Employee{}).
		Where("id = ?", id).
		Updates(patch.columns())
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}

	return r.FindByID(ctx, id)
}

// Delete reads and removes the row in one transaction, so the returned
// record is the one that was deleted.
func (r *repository) Delete(ctx context.Context, id string) (*Employee, error) {
	var empl Employee
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&empl, "id = ?", id).Error; err != nil {
			return err
		}
		res := tx.Delete(&Employee{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &empl, nil
}
