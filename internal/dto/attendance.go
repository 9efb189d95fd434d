package dto

import "time"

// ── 考勤模块 DTO ──

// CheckInRequest 上班打卡请求
// 打卡时间一律取服务器时钟，不接受客户端上报，防止设备改时作弊；
// ScheduledTime 为排班方约定的应到时间，仅用于迟到判定，可缺省
type CheckInRequest struct {
	SiteID        string     `json:"site_id"        binding:"required,uuid"`
	Latitude      *float64   `json:"latitude"       binding:"required,min=-90,max=90"`
	Longitude     *float64   `json:"longitude"      binding:"required,min=-180,max=180"`
	PhotoURL      string     `json:"photo_url"      binding:"omitempty,max=500,url"`
	ScheduledTime *time.Time `json:"scheduled_time" binding:"omitempty"`
}

// CheckOutRequest 下班打卡请求
// 下班不做围栏校验（只要求到岗时证明位置，收工不限制 — 物流策略）
type CheckOutRequest struct {
	Latitude  *float64 `json:"latitude"  binding:"required,min=-90,max=90"`
	Longitude *float64 `json:"longitude" binding:"required,min=-180,max=180"`
	Notes     string   `json:"notes"     binding:"omitempty,max=500"`
}

// ShiftResponse 班次信息响应
type ShiftResponse struct {
	ID            string   `json:"id"`
	WorkerID      string   `json:"worker_id"`
	WorkerName    string   `json:"worker_name,omitempty"`
	SiteID        string   `json:"site_id"`
	SiteName      string   `json:"site_name,omitempty"`
	CheckInTime   string   `json:"check_in_time"`
	CheckInLat    float64  `json:"check_in_lat"`
	CheckInLng    float64  `json:"check_in_lng"`
	CheckOutTime  string   `json:"check_out_time,omitempty"`
	CheckOutLat   *float64 `json:"check_out_lat,omitempty"`
	CheckOutLng   *float64 `json:"check_out_lng,omitempty"`
	IsLate        bool     `json:"is_late"`
	HoursWorked   *float64 `json:"hours_worked,omitempty"`
	PhotoURL      string   `json:"photo_url,omitempty"`
	PhotoAnalysis string   `json:"photo_analysis,omitempty"`
	Notes         string   `json:"notes,omitempty"`
}

// CheckOutResponse 下班打卡响应：关闭的班次 + 本次工时
type CheckOutResponse struct {
	Shift       ShiftResponse `json:"shift"`
	HoursWorked float64       `json:"hours_worked"`
}

// GeofenceViolationData 围栏拒绝时的结构化信息
// 供前端拼出「你距工地 142 米，需在 100 米内」之类的提示
type GeofenceViolationData struct {
	DistanceM float64 `json:"distance_m"`
	RadiusM   int     `json:"radius_m"`
}

// AlreadyCheckedInData 重复打卡时返回冲突班次标识，前端可引导「改为下班打卡」
type AlreadyCheckedInData struct {
	ShiftID string `json:"shift_id"`
}

// ShiftListRequest 班次列表查询参数
type ShiftListRequest struct {
	PaginationRequest
	SiteID   string `form:"site_id"   binding:"omitempty,uuid"`
	WorkerID string `form:"worker_id" binding:"omitempty,uuid"`
	From     string `form:"from"      binding:"omitempty"` // RFC3339 或 2006-01-02
	To       string `form:"to"        binding:"omitempty"`
}
