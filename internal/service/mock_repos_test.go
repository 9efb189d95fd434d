package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/Musikislyfe/ConstruX/internal/model"
	"github.com/Musikislyfe/ConstruX/internal/repository"
	pkgerrors "github.com/Musikislyfe/ConstruX/pkg/errors"
)

// ── Mock WorkerRepository ──

type mockWorkerRepo struct {
	workers map[string]*model.Worker
}

func newMockWorkerRepo() *mockWorkerRepo {
	return &mockWorkerRepo{workers: make(map[string]*model.Worker)}
}

func (m *mockWorkerRepo) Create(_ context.Context, worker *model.Worker) error {
	if worker.WorkerID == "" {
		worker.WorkerID = "worker-" + worker.Phone
	}
	m.workers[worker.WorkerID] = worker
	return nil
}

func (m *mockWorkerRepo) GetByID(_ context.Context, id string) (*model.Worker, error) {
	if w, ok := m.workers[id]; ok {
		return w, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockWorkerRepo) GetByPhone(_ context.Context, phone string) (*model.Worker, error) {
	for _, w := range m.workers {
		if w.Phone == phone {
			return w, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockWorkerRepo) List(_ context.Context, offset, limit int) ([]model.Worker, int64, error) {
	var result []model.Worker
	for _, w := range m.workers {
		result = append(result, *w)
	}
	return result, int64(len(m.workers)), nil
}

func (m *mockWorkerRepo) Update(_ context.Context, worker *model.Worker) error {
	m.workers[worker.WorkerID] = worker
	return nil
}

// ── Mock SiteRepository ──

type mockSiteRepo struct {
	sites map[string]*model.Site
}

func newMockSiteRepo() *mockSiteRepo {
	return &mockSiteRepo{sites: make(map[string]*model.Site)}
}

func (m *mockSiteRepo) Create(_ context.Context, site *model.Site) error {
	if site.SiteID == "" {
		site.SiteID = "site-" + site.Name
	}
	m.sites[site.SiteID] = site
	return nil
}

func (m *mockSiteRepo) GetByID(_ context.Context, id string) (*model.Site, error) {
	if s, ok := m.sites[id]; ok {
		return s, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSiteRepo) List(_ context.Context, includeInactive bool) ([]model.Site, error) {
	var result []model.Site
	for _, s := range m.sites {
		if !includeInactive && !s.IsActive {
			continue
		}
		result = append(result, *s)
	}
	return result, nil
}

func (m *mockSiteRepo) Update(_ context.Context, site *model.Site) error {
	m.sites[site.SiteID] = site
	return nil
}

func (m *mockSiteRepo) Delete(_ context.Context, id string, _ string) error {
	delete(m.sites, id)
	return nil
}

// ── Mock ShiftRepository ──

// mockShiftRepo 用互斥锁模拟真实实现中部分唯一索引的原子性：
// 「检查进行中班次 + 插入」在锁内完成，并发创建最多一个成功
type mockShiftRepo struct {
	mu     sync.Mutex
	shifts map[string]*model.Shift
	seq    int
}

func newMockShiftRepo() *mockShiftRepo {
	return &mockShiftRepo{shifts: make(map[string]*model.Shift)}
}

func (m *mockShiftRepo) FindOpen(_ context.Context, workerID string) (*model.Shift, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.shifts {
		if s.WorkerID == workerID && s.CheckOutTime == nil {
			copied := *s
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockShiftRepo) Create(_ context.Context, shift *model.Shift) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.shifts {
		if s.WorkerID == shift.WorkerID && s.CheckOutTime == nil {
			return pkgerrors.ErrOpenShiftExists
		}
	}
	m.seq++
	shift.ShiftID = fmt.Sprintf("shift-%03d", m.seq)
	copied := *shift
	m.shifts[shift.ShiftID] = &copied
	return nil
}

func (m *mockShiftRepo) Close(_ context.Context, shiftID string, checkOutTime time.Time, lat, lng float64, hoursWorked float64, notes string) (*model.Shift, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.shifts[shiftID]
	if !ok || s.CheckOutTime != nil {
		return nil, pkgerrors.ErrShiftAlreadyClosed
	}
	s.CheckOutTime = &checkOutTime
	s.CheckOutLat = &lat
	s.CheckOutLng = &lng
	s.HoursWorked = &hoursWorked
	if notes != "" {
		s.Notes = notes
	}
	copied := *s
	return &copied, nil
}

func (m *mockShiftRepo) List(_ context.Context, filter *repository.ShiftFilter) ([]model.Shift, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []model.Shift
	for _, s := range m.shifts {
		if filter.SiteID != "" && s.SiteID != filter.SiteID {
			continue
		}
		if filter.WorkerID != "" && s.WorkerID != filter.WorkerID {
			continue
		}
		if filter.From != nil && s.CheckInTime.Before(*filter.From) {
			continue
		}
		if filter.To != nil && s.CheckInTime.After(*filter.To) {
			continue
		}
		result = append(result, *s)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CheckInTime.After(result[j].CheckInTime)
	})
	return result, int64(len(result)), nil
}

func (m *mockShiftRepo) GetByID(_ context.Context, shiftID string) (*model.Shift, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.shifts[shiftID]; ok {
		copied := *s
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

// openShiftCount 统计某工人进行中班次数量（测试断言用）
func (m *mockShiftRepo) openShiftCount(workerID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	for _, s := range m.shifts {
		if s.WorkerID == workerID && s.CheckOutTime == nil {
			count++
		}
	}
	return count
}
