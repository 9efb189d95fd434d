package model

// Site 工地表 — 对应 sites
// 坐标可选：未注册坐标的工地打卡时跳过围栏校验（有意的策略，不是缺陷）
type Site struct {
	SiteID          string   `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"site_id"`
	Name            string   `gorm:"type:varchar(100);not null"                     json:"name"`
	Address         string   `gorm:"type:varchar(200)"                              json:"address,omitempty"`
	Latitude        *float64 `gorm:"type:double precision"                          json:"latitude,omitempty"`
	Longitude       *float64 `gorm:"type:double precision"                          json:"longitude,omitempty"`
	GeofenceRadiusM int      `gorm:"not null;default:100"                           json:"geofence_radius_m"`
	IsActive        bool     `gorm:"not null;default:true"                          json:"is_active"`
	SoftDeleteModel
}

// TableName 指定表名
func (Site) TableName() string { return "sites" }

// HasCoordinate 是否注册了坐标（纬度经度成对出现，迁移层有 CHECK 约束保证）
func (s *Site) HasCoordinate() bool {
	return s.Latitude != nil && s.Longitude != nil
}
