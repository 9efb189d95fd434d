package dto

// ── 工地模块 DTO ──

// CreateSiteRequest 创建工地请求
// 坐标可选，但必须成对出现；半径缺省时由 Service 层取配置默认值
type CreateSiteRequest struct {
	Name            string   `json:"name"              binding:"required,min=2,max=100"`
	Address         string   `json:"address"           binding:"omitempty,max=200"`
	Latitude        *float64 `json:"latitude"          binding:"omitempty,min=-90,max=90"`
	Longitude       *float64 `json:"longitude"         binding:"omitempty,min=-180,max=180"`
	GeofenceRadiusM *int     `json:"geofence_radius_m" binding:"omitempty,min=1"`
}

// UpdateSiteRequest 更新工地请求
type UpdateSiteRequest struct {
	Name            *string  `json:"name"              binding:"omitempty,min=2,max=100"`
	Address         *string  `json:"address"           binding:"omitempty,max=200"`
	Latitude        *float64 `json:"latitude"          binding:"omitempty,min=-90,max=90"`
	Longitude       *float64 `json:"longitude"         binding:"omitempty,min=-180,max=180"`
	GeofenceRadiusM *int     `json:"geofence_radius_m" binding:"omitempty,min=1"`
	IsActive        *bool    `json:"is_active"`
}

// SiteListRequest 工地列表查询参数
type SiteListRequest struct {
	IncludeInactive bool `form:"include_inactive"`
}

// SiteResponse 工地信息响应
type SiteResponse struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Address         string   `json:"address,omitempty"`
	Latitude        *float64 `json:"latitude,omitempty"`
	Longitude       *float64 `json:"longitude,omitempty"`
	GeofenceRadiusM int      `json:"geofence_radius_m"`
	IsActive        bool     `json:"is_active"`
	CreatedAt       string   `json:"created_at"`
	UpdatedAt       string   `json:"updated_at"`
}
