package employee

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	employeeerrors "github.com/rrayyhanep/Heaven-receipt/internal/employee/errors"
	"github.com/rrayyhanep/Heaven-receipt/internal/shared/contextutil"
	"github.com/rrayyhanep/Heaven-receipt/internal/shared/keylock"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	EmployeeListKey   = "employees:list"
	employeeListTTL   = time.Hour
	defaultLockWait   = 10 * time.Second
	employeeLockSpace = "employee:"
)

// LockKey is the keylock key guarding one employee's read-modify-write.
func LockKey(id string) string {
	return employeeLockSpace + id
}

// ModifyFunc receives the current record and returns the fields to change.
// Returning an error aborts the write.
type ModifyFunc func(current EmployeeResponse) (UpdateEmployeeRequest, error)

type Service interface {
	Create(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error)
	GetAll(ctx context.Context) ([]EmployeeResponse, error)
	GetByID(ctx context.Context, id string) (EmployeeResponse, error)
	Update(ctx context.Context, id string, req UpdateEmployeeRequest) (EmployeeResponse, error)
	Delete(ctx context.Context, id string) (EmployeeResponse, error)
	// Modify runs read, fn, write while holding the employee's lock.
	Modify(ctx context.Context, id string, fn ModifyFunc) (EmployeeResponse, error)
}

type service struct {
	repo     Repository
	locker   keylock.Locker
	lockWait time.Duration
	rdb      *redis.Client
	sf       *singleflight.Group
	logger   *zap.Logger
}

// NewService wires the roster service. A nil locker falls back to an
// in-process keylock; a nil rdb disables the list cache.
func NewService(repo Repository, locker keylock.Locker, rdb *redis.Client, logger ...*zap.Logger) Service {
	l := zap.L().Named("employee.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("employee.service")
	}
	if locker == nil {
		locker = keylock.NewLocal()
	}
	return &service{
		repo:     repo,
		locker:   locker,
		lockWait: defaultLockWait,
		rdb:      rdb,
		sf:       &singleflight.Group{},
		logger:   l,
	}
}

func (s *service) Create(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error) {
	log := contextutil.Tagged(ctx, s.logger)
	log.Debug("create employee requested", zap.String("name", req.Name))

	empl := &Employee{
		Name:           req.Name,
		BasicSalary:    req.BasicSalary,
		PendingBalance: req.PendingBalance,
	}
	if err := s.repo.Create(ctx, empl); err != nil {
		log.Error("create employee persist failed", zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	s.invalidateList(ctx)
	log.Info("create employee success", zap.String("employee_id", empl.ID))
	return mapToResponse(*empl), nil
}

func (s *service) GetAll(ctx context.Context) ([]EmployeeResponse, error) {
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, EmployeeListKey).Result(); err == nil {
			var resp []EmployeeResponse
			if json.Unmarshal([]byte(cached), &resp) == nil {
				return resp, nil
			}
		}
	}

	v, err, _ := s.sf.Do(EmployeeListKey, func() (any, error) {
		empls, err := s.repo.FindAll(ctx)
		if err != nil {
			contextutil.Tagged(ctx, s.logger).Error("get all employees failed", zap.Error(err))
			return nil, mapRepositoryError(err)
		}

		resp := mapToListResponse(empls)
		if s.rdb != nil {
			if data, err := json.Marshal(resp); err == nil {
				if err := s.rdb.Set(ctx, EmployeeListKey, string(data), employeeListTTL).Err(); err != nil {
					s.logger.Warn("cache employee list failed", zap.Error(err))
				}
			}
		}
		return resp, nil
	})
	if err != nil {
		return nil, err
	}

	return v.([]EmployeeResponse), nil
}

func (s *service) GetByID(ctx context.Context, id string) (EmployeeResponse, error) {
	log := contextutil.Tagged(ctx, s.logger)
	log.Debug("get employee by id requested", zap.String("employee_id", id))

	empl, err := s.repo.FindByID(ctx, id)
	if err != nil {
		err = mapRepositoryError(err)
		if !errors.Is(err, employeeerrors.ErrEmployeeNotFound) {
			log.Error("get employee by id failed", zap.String("employee_id", id), zap.Error(err))
		}
		return EmployeeResponse{}, err
	}

	return mapToResponse(*empl), nil
}

func (s *service) Update(ctx context.Context, id string, req UpdateEmployeeRequest) (EmployeeResponse, error) {
	log := contextutil.Tagged(ctx, s.logger)
	log.Debug("update employee requested", zap.String("employee_id", id))

	unlock, err := s.lock(ctx, id)
	if err != nil {
		return EmployeeResponse{}, err
	}
	defer unlock()

	empl, err := s.repo.Update(ctx, id, req.patch())
	if err != nil {
		log.Warn("update employee failed", zap.String("employee_id", id), zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	s.invalidateList(ctx)
	log.Info("update employee success", zap.String("employee_id", id))
	return mapToResponse(*empl), nil
}

func (s *service) Delete(ctx context.Context, id string) (EmployeeResponse, error) {
	log := contextutil.Tagged(ctx, s.logger)
	log.Debug("delete employee requested", zap.String("employee_id", id))

	unlock, err := s.lock(ctx, id)
	if err != nil {
		return EmployeeResponse{}, err
	}
	defer unlock()

	removed, err := s.repo.Delete(ctx, id)
	if err != nil {
		log.Warn("delete employee failed", zap.String("employee_id", id), zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	s.invalidateList(ctx)
	log.Info("delete employee success", zap.String("employee_id", id))
	return mapToResponse(*removed), nil
}

func (s *service) Modify(ctx context.Context, id string, fn ModifyFunc) (EmployeeResponse, error) {
	unlock, err := s.lock(ctx, id)
	if err != nil {
		return EmployeeResponse{}, err
	}
	defer unlock()

	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	req, err := fn(mapToResponse(*current))
	if err != nil {
		return EmployeeResponse{}, err
	}

	updated, err := s.repo.Update(ctx, id, req.patch())
	if err != nil {
		contextutil.Tagged(ctx, s.logger).Error("modify employee persist failed", zap.String("employee_id", id), zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	s.invalidateList(ctx)
	return mapToResponse(*updated), nil
}

func (s *service) lock(ctx context.Context, id string) (func(), error) {
	lockCtx, cancel := context.WithTimeout(ctx, s.lockWait)
	defer cancel()

	unlock, err := s.locker.Lock(lockCtx, LockKey(id))
	if err != nil {
		contextutil.Tagged(ctx, s.logger).Warn("acquire employee lock failed", zap.String("employee_id", id), zap.Error(err))
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return nil, employeeerrors.ErrEmployeeBusy.WithCause(err)
		}
		return nil, employeeerrors.ErrEmployeeStorage.WithCause(err)
	}
	return unlock, nil
}

func (s *service) invalidateList(ctx context.Context) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, EmployeeListKey).Err(); err != nil {
		s.logger.Error("failed to invalidate employee list cache",
			zap.Error(err),
			zap.String("key", EmployeeListKey),
		)
	}
}

func mapToResponse(empl Employee) EmployeeResponse {
	return EmployeeResponse{
		ID:             empl.ID,
		Name:           empl.Name,
		BasicSalary:    empl.BasicSalary,
		PendingBalance: empl.PendingBalance,
	}
}

func mapToListResponse(empls []Employee) []EmployeeResponse {
	res := make([]EmployeeResponse, len(empls))
	for i, e := range empls {
		res[i] = mapToResponse(e)
	}
	return res
}
