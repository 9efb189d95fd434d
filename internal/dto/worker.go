package dto

// ── 工人模块 DTO ──

// CreateWorkerRequest 创建工人请求
type CreateWorkerRequest struct {
	Name     string `json:"name"     binding:"required,min=2,max=100"`
	Phone    string `json:"phone"    binding:"required,min=5,max=20"`
	Password string `json:"password" binding:"required,min=8,max=64"`
	Role     string `json:"role"     binding:"omitempty,oneof=admin foreman worker"`
}

// WorkerListRequest 工人列表查询参数
type WorkerListRequest struct {
	PaginationRequest
}

// WorkerResponse 工人信息响应
type WorkerResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Role     string `json:"role"`
	IsActive bool   `json:"is_active"`
}
