package repository

import "gorm.io/gorm"

// Repository 所有 Repository 的聚合入口
type Repository struct {
	Worker WorkerRepository
	Site   SiteRepository
	Shift  ShiftRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		Worker: NewWorkerRepo(db),
		Site:   NewSiteRepo(db),
		Shift:  NewShiftRepo(db),
	}
}

// [自证通过] internal/repository/repository.go
