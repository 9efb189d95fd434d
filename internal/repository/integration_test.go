//go:build integration

package repository_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Musikislyfe/ConstruX/internal/model"
	"github.com/Musikislyfe/ConstruX/internal/repository"
	pkgerrors "github.com/Musikislyfe/ConstruX/pkg/errors"
)

// ═══════════════════════════════════════════════════════════
// Test Setup
// ═══════════════════════════════════════════════════════════

var testDB *gorm.DB

func TestMain(m *testing.M) {
	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		dsn = "host=localhost port=5433 user=construx password=construx_password dbname=construx_test sslmode=disable TimeZone=UTC"
	}

	var err error
	testDB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "无法连接测试数据库: %v\n", err)
		os.Exit(1)
	}

	// 自动迁移测试表结构
	if err := testDB.AutoMigrate(&model.Worker{}, &model.Site{}, &model.Shift{}); err != nil {
		fmt.Fprintf(os.Stderr, "AutoMigrate 失败: %v\n", err)
		os.Exit(1)
	}

	// AutoMigrate 不会创建部分唯一索引，手工补齐台账核心不变量
	if err := testDB.Exec(
		"CREATE UNIQUE INDEX IF NOT EXISTS uniq_open_shift_per_worker ON shifts (worker_id) WHERE check_out_time IS NULL",
	).Error; err != nil {
		fmt.Fprintf(os.Stderr, "创建部分唯一索引失败: %v\n", err)
		os.Exit(1)
	}

	os.Exit(m.Run())
}

// setupTestData 创建基础测试数据并返回清理函数
func setupTestData(t *testing.T) (worker *model.Worker, site *model.Site, cleanup func()) {
	t.Helper()
	ctx := context.Background()

	worker = &model.Worker{
		Name:         "测试工人",
		Phone:        fmt.Sprintf("138%d", time.Now().UnixNano()%1e10),
		PasswordHash: "$2a$10$placeholder",
		Role:         "worker",
		IsActive:     true,
	}
	if err := testDB.WithContext(ctx).Create(worker).Error; err != nil {
		t.Fatalf("创建工人失败: %v", err)
	}

	lat, lng := 30.2672, -97.7431
	site = &model.Site{
		Name:            fmt.Sprintf("测试工地-%d", time.Now().UnixNano()),
		Latitude:        &lat,
		Longitude:       &lng,
		GeofenceRadiusM: 100,
		IsActive:        true,
	}
	if err := testDB.WithContext(ctx).Create(site).Error; err != nil {
		t.Fatalf("创建工地失败: %v", err)
	}

	cleanup = func() {
		testDB.Unscoped().Where("worker_id = ?", worker.WorkerID).Delete(&model.Shift{})
		testDB.Unscoped().Where("site_id = ?", site.SiteID).Delete(&model.Site{})
		testDB.Unscoped().Where("worker_id = ?", worker.WorkerID).Delete(&model.Worker{})
	}
	return
}

func newOpenShift(worker *model.Worker, site *model.Site) *model.Shift {
	return &model.Shift{
		WorkerID:    worker.WorkerID,
		SiteID:      site.SiteID,
		CheckInTime: time.Now().UTC(),
		CheckInLat:  30.2672,
		CheckInLng:  -97.7431,
	}
}

// ═══════════════════════════════════════════════════════════
// Test: 进行中班次唯一约束
// ═══════════════════════════════════════════════════════════

func TestShiftRepo_Create_SecondOpenShiftConflicts(t *testing.T) {
	worker, site, cleanup := setupTestData(t)
	defer cleanup()
	ctx := context.Background()
	repo := repository.NewShiftRepo(testDB)

	if err := repo.Create(ctx, newOpenShift(worker, site)); err != nil {
		t.Fatalf("首次创建应成功: %v", err)
	}

	err := repo.Create(ctx, newOpenShift(worker, site))
	if !errors.Is(err, pkgerrors.ErrOpenShiftExists) {
		t.Errorf("期望 ErrOpenShiftExists，实际: %v", err)
	}
}

func TestShiftRepo_Create_ConcurrentOnlyOneWins(t *testing.T) {
	worker, site, cleanup := setupTestData(t)
	defer cleanup()
	ctx := context.Background()
	repo := repository.NewShiftRepo(testDB)

	const attempts = 16
	var wg sync.WaitGroup
	errs := make([]error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = repo.Create(ctx, newOpenShift(worker, site))
		}(i)
	}
	wg.Wait()

	success := 0
	for _, err := range errs {
		if err == nil {
			success++
		} else if !errors.Is(err, pkgerrors.ErrOpenShiftExists) {
			t.Errorf("并发创建出现意外错误: %v", err)
		}
	}
	if success != 1 {
		t.Errorf("并发创建期望恰好 1 个成功，实际=%d", success)
	}
}

// ═══════════════════════════════════════════════════════════
// Test: 关闭班次
// ═══════════════════════════════════════════════════════════

func TestShiftRepo_Close_Lifecycle(t *testing.T) {
	worker, site, cleanup := setupTestData(t)
	defer cleanup()
	ctx := context.Background()
	repo := repository.NewShiftRepo(testDB)

	shift := newOpenShift(worker, site)
	if err := repo.Create(ctx, shift); err != nil {
		t.Fatalf("创建班次失败: %v", err)
	}

	open, err := repo.FindOpen(ctx, worker.WorkerID)
	if err != nil {
		t.Fatalf("FindOpen 应命中: %v", err)
	}
	if open.ShiftID != shift.ShiftID {
		t.Errorf("FindOpen 返回了错误的班次: %s", open.ShiftID)
	}

	closed, err := repo.Close(ctx, shift.ShiftID, time.Now().UTC(), 30.2672, -97.7431, 8.00, "收工")
	if err != nil {
		t.Fatalf("关闭班次失败: %v", err)
	}
	if closed.CheckOutTime == nil || closed.HoursWorked == nil {
		t.Error("关闭后 check_out_time 与 hours_worked 应已写入")
	}

	// 关闭后 FindOpen 不再命中
	if _, err := repo.FindOpen(ctx, worker.WorkerID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("关闭后 FindOpen 期望 ErrRecordNotFound，实际: %v", err)
	}

	// 二次关闭应失败（终态不可重入）
	_, err = repo.Close(ctx, shift.ShiftID, time.Now().UTC(), 0, 0, 0, "")
	if !errors.Is(err, pkgerrors.ErrShiftAlreadyClosed) {
		t.Errorf("二次关闭期望 ErrShiftAlreadyClosed，实际: %v", err)
	}

	// 关闭后可再次创建新班次
	if err := repo.Create(ctx, newOpenShift(worker, site)); err != nil {
		t.Errorf("关闭旧班次后新建应成功: %v", err)
	}
}

func TestShiftRepo_Close_NotFound(t *testing.T) {
	_, _, cleanup := setupTestData(t)
	defer cleanup()
	repo := repository.NewShiftRepo(testDB)

	_, err := repo.Close(context.Background(), "00000000-0000-0000-0000-000000000000", time.Now(), 0, 0, 0, "")
	if !errors.Is(err, pkgerrors.ErrShiftAlreadyClosed) {
		t.Errorf("关闭不存在的班次期望 ErrShiftAlreadyClosed，实际: %v", err)
	}
}

// ═══════════════════════════════════════════════════════════
// Test: 列表查询
// ═══════════════════════════════════════════════════════════

func TestShiftRepo_List_OrderAndFilter(t *testing.T) {
	worker, site, cleanup := setupTestData(t)
	defer cleanup()
	ctx := context.Background()
	repo := repository.NewShiftRepo(testDB)

	base := time.Now().UTC().Add(-3 * time.Hour)
	for i := 0; i < 3; i++ {
		s := newOpenShift(worker, site)
		s.CheckInTime = base.Add(time.Duration(i) * time.Hour)
		if err := repo.Create(ctx, s); err != nil {
			t.Fatalf("创建班次失败: %v", err)
		}
		if i < 2 {
			// 关闭前两条，保持「最多一条进行中」
			if _, err := repo.Close(ctx, s.ShiftID, s.CheckInTime.Add(30*time.Minute), 30.2672, -97.7431, 0.5, ""); err != nil {
				t.Fatalf("关闭班次失败: %v", err)
			}
		}
	}

	shifts, total, err := repo.List(ctx, &repository.ShiftFilter{
		WorkerID: worker.WorkerID,
		Limit:    10,
	})
	if err != nil {
		t.Fatalf("List 失败: %v", err)
	}
	if total != 3 || len(shifts) != 3 {
		t.Fatalf("期望 3 条班次，实际 total=%d len=%d", total, len(shifts))
	}

	// 上班打卡时间倒序
	for i := 1; i < len(shifts); i++ {
		if shifts[i].CheckInTime.After(shifts[i-1].CheckInTime) {
			t.Error("班次应按上班打卡时间倒序排列")
		}
	}
}
