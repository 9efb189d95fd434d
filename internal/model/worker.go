package model

// Worker 工人表 — 对应 workers
type Worker struct {
	WorkerID     string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"worker_id"`
	Name         string `gorm:"type:varchar(100);not null"                     json:"name"`
	Phone        string `gorm:"type:varchar(20);not null"                      json:"phone"`
	PasswordHash string `gorm:"type:varchar(255);not null"                     json:"-"`
	Role         string `gorm:"type:varchar(20);not null;default:'worker'"     json:"role"` // admin | foreman | worker
	IsActive     bool   `gorm:"not null;default:true"                          json:"is_active"`
	SoftDeleteModel
}

// TableName 指定表名
func (Worker) TableName() string { return "workers" }
