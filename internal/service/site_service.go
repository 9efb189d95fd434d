package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Musikislyfe/ConstruX/internal/dto"
	"github.com/Musikislyfe/ConstruX/internal/model"
	"github.com/Musikislyfe/ConstruX/internal/repository"
)

// ── 工地模块业务错误 ──

var (
	ErrSiteCoordinatePair = errors.New("纬度与经度必须成对提供")
)

// SiteService 工地业务接口
type SiteService interface {
	Create(ctx context.Context, req *dto.CreateSiteRequest, callerID string) (*dto.SiteResponse, error)
	GetByID(ctx context.Context, id string) (*dto.SiteResponse, error)
	List(ctx context.Context, req *dto.SiteListRequest) ([]dto.SiteResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateSiteRequest, callerID string) (*dto.SiteResponse, error)
	Delete(ctx context.Context, id string, callerID string) error
}

type siteService struct {
	repo           *repository.Repository
	defaultRadiusM int
	logger         *zap.Logger
}

// NewSiteService 创建 SiteService 实例
func NewSiteService(repo *repository.Repository, defaultRadiusM int, logger *zap.Logger) SiteService {
	return &siteService{repo: repo, defaultRadiusM: defaultRadiusM, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *siteService) Create(ctx context.Context, req *dto.CreateSiteRequest, callerID string) (*dto.SiteResponse, error) {
	if (req.Latitude == nil) != (req.Longitude == nil) {
		return nil, ErrSiteCoordinatePair
	}

	radius := s.defaultRadiusM
	if req.GeofenceRadiusM != nil {
		radius = *req.GeofenceRadiusM
	}

	site := &model.Site{
		Name:            req.Name,
		Address:         req.Address,
		Latitude:        req.Latitude,
		Longitude:       req.Longitude,
		GeofenceRadiusM: radius,
		IsActive:        true,
	}
	site.CreatedBy = &callerID
	site.UpdatedBy = &callerID

	if err := s.repo.Site.Create(ctx, site); err != nil {
		s.logger.Error("创建工地失败", zap.Error(err))
		return nil, err
	}

	return s.toSiteResponse(site), nil
}

// ────────────────────── GetByID ──────────────────────

func (s *siteService) GetByID(ctx context.Context, id string) (*dto.SiteResponse, error) {
	site, err := s.repo.Site.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSiteNotFound
		}
		s.logger.Error("查询工地失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	return s.toSiteResponse(site), nil
}

// ────────────────────── List ──────────────────────

func (s *siteService) List(ctx context.Context, req *dto.SiteListRequest) ([]dto.SiteResponse, error) {
	sites, err := s.repo.Site.List(ctx, req.IncludeInactive)
	if err != nil {
		s.logger.Error("列出工地失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.SiteResponse, 0, len(sites))
	for i := range sites {
		result = append(result, *s.toSiteResponse(&sites[i]))
	}

	return result, nil
}

// ────────────────────── Update ──────────────────────

func (s *siteService) Update(ctx context.Context, id string, req *dto.UpdateSiteRequest, callerID string) (*dto.SiteResponse, error) {
	site, err := s.repo.Site.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSiteNotFound
		}
		s.logger.Error("查询工地失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	if req.Name != nil {
		site.Name = *req.Name
	}
	if req.Address != nil {
		site.Address = *req.Address
	}
	if req.Latitude != nil || req.Longitude != nil {
		if req.Latitude == nil || req.Longitude == nil {
			return nil, ErrSiteCoordinatePair
		}
		site.Latitude = req.Latitude
		site.Longitude = req.Longitude
	}
	if req.GeofenceRadiusM != nil {
		site.GeofenceRadiusM = *req.GeofenceRadiusM
	}
	if req.IsActive != nil {
		site.IsActive = *req.IsActive
	}

	site.UpdatedBy = &callerID

	if err := s.repo.Site.Update(ctx, site); err != nil {
		s.logger.Error("更新工地失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	return s.toSiteResponse(site), nil
}

// ────────────────────── Delete ──────────────────────

func (s *siteService) Delete(ctx context.Context, id string, callerID string) error {
	_, err := s.repo.Site.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSiteNotFound
		}
		s.logger.Error("查询工地失败", zap.String("id", id), zap.Error(err))
		return err
	}

	if err := s.repo.Site.Delete(ctx, id, callerID); err != nil {
		s.logger.Error("删除工地失败", zap.String("id", id), zap.Error(err))
		return err
	}

	return nil
}

// ── 内部辅助方法 ──

func (s *siteService) toSiteResponse(site *model.Site) *dto.SiteResponse {
	return &dto.SiteResponse{
		ID:              site.SiteID,
		Name:            site.Name,
		Address:         site.Address,
		Latitude:        site.Latitude,
		Longitude:       site.Longitude,
		GeofenceRadiusM: site.GeofenceRadiusM,
		IsActive:        site.IsActive,
		CreatedAt:       site.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       site.UpdatedAt.Format(time.RFC3339),
	}
}
