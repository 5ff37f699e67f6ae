// Package delivery 提供配送区与地址判定服务
package delivery

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/VladDeliar/PoS/internal/common/cache"
	"github.com/VladDeliar/PoS/internal/common/config"
	apperrors "github.com/VladDeliar/PoS/internal/common/errors"
	"github.com/VladDeliar/PoS/internal/common/logger"
	"github.com/VladDeliar/PoS/internal/common/metrics"
	"github.com/VladDeliar/PoS/internal/geo"
	"github.com/VladDeliar/PoS/internal/models"
	"github.com/VladDeliar/PoS/internal/repository"
	"github.com/VladDeliar/PoS/internal/store"
	"github.com/VladDeliar/PoS/pkg/geocode"
)

// MaxRadiusKm 配送区半径上限（公里）
const MaxRadiusKm = 50.0

// ZoneService 配送区服务
//
// 半径型配送区的 Geometry 是 (中心点, 半径) 的缓存衍生值：
// 修改全局配送中心不会自动重算，需要显式调用
// RecalculateAllRadiusZones。这是有意保留的两步协议。
type ZoneService struct {
	zones    store.ZoneStore
	center   store.CenterStore
	geocoder geocode.Geocoder
	cfg      *config.DeliveryConfig
}

// NewZoneService 创建配送区服务
func NewZoneService(
	zones store.ZoneStore,
	center store.CenterStore,
	geocoder geocode.Geocoder,
	cfg *config.DeliveryConfig,
) *ZoneService {
	return &ZoneService{
		zones:    zones,
		center:   center,
		geocoder: geocoder,
		cfg:      cfg,
	}
}

// ZoneInput 创建/更新配送区的请求
// 更新不支持部分修改：每次都按全量输入重新校验并重算几何体
type ZoneInput struct {
	Name                  string       `json:"name" binding:"required"`
	ZoneType              string       `json:"zone_type" binding:"required,oneof=radius polygon"`
	RadiusKm              *float64     `json:"radius_km"`
	CenterLat             *float64     `json:"center_lat"`
	CenterLng             *float64     `json:"center_lng"`
	CustomGeometry        *geo.Polygon `json:"custom_geometry"`
	Color                 string       `json:"color"`
	DeliveryFee           float64      `json:"delivery_fee"`
	MinOrderAmount        float64      `json:"min_order_amount"`
	FreeDeliveryThreshold *float64     `json:"free_delivery_threshold"`
	Enabled               *bool        `json:"enabled"`
	Priority              int          `json:"priority"`
}

// CreateZone 创建配送区
func (s *ZoneService) CreateZone(ctx context.Context, input *ZoneInput) (*models.DeliveryZone, error) {
	zone := &models.DeliveryZone{}
	if err := s.applyInput(ctx, zone, input); err != nil {
		return nil, err
	}

	if err := s.zones.Create(ctx, zone); err != nil {
		if apperrors.IsAppError(err) {
			return nil, err
		}
		return nil, apperrors.ErrDatabaseError.WithError(err)
	}

	s.invalidateCache(ctx)
	logger.Info("配送区已创建", logger.ZoneID(zone.ID), logger.Module("delivery"))
	return zone, nil
}

// UpdateZone 更新配送区（全量重算几何体）
func (s *ZoneService) UpdateZone(ctx context.Context, id int64, input *ZoneInput) (*models.DeliveryZone, error) {
	zone, err := s.zones.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrZoneNotFound
		}
		return nil, apperrors.ErrDatabaseError.WithError(err)
	}

	if err := s.applyInput(ctx, zone, input); err != nil {
		return nil, err
	}

	if err := s.zones.Update(ctx, zone); err != nil {
		if apperrors.IsAppError(err) {
			return nil, err
		}
		return nil, apperrors.ErrDatabaseError.WithError(err)
	}

	s.invalidateCache(ctx)
	return zone, nil
}

// applyInput 校验输入并重算几何体，结果写入 zone
func (s *ZoneService) applyInput(ctx context.Context, zone *models.DeliveryZone, input *ZoneInput) error {
	zone.Name = input.Name
	zone.ZoneType = input.ZoneType
	zone.DeliveryFee = input.DeliveryFee
	zone.MinOrderAmount = input.MinOrderAmount
	zone.FreeDeliveryThreshold = input.FreeDeliveryThreshold
	zone.Priority = input.Priority
	if input.Color != "" {
		zone.Color = input.Color
	}
	if input.Enabled != nil {
		zone.Enabled = *input.Enabled
	} else if zone.ID == 0 {
		zone.Enabled = true
	}

	if input.DeliveryFee < 0 || input.MinOrderAmount < 0 {
		return apperrors.ErrZoneInvalid.WithMessage("Вартість доставки та мінімальна сума не можуть бути від'ємними")
	}
	if input.FreeDeliveryThreshold != nil && *input.FreeDeliveryThreshold < 0 {
		return apperrors.ErrZoneInvalid.WithMessage("Поріг безкоштовної доставки не може бути від'ємним")
	}
	if input.Priority < 0 {
		return apperrors.ErrZoneInvalid.WithMessage("Пріоритет зони не може бути від'ємним")
	}

	switch input.ZoneType {
	case models.ZoneTypeRadius:
		return s.applyRadius(ctx, zone, input)
	case models.ZoneTypePolygon:
		return s.applyPolygon(zone, input)
	default:
		return apperrors.ErrZoneInvalid
	}
}

// applyRadius 半径型：由中心点和半径生成几何体
// 未指定自有中心点时使用当前全局配送中心
func (s *ZoneService) applyRadius(ctx context.Context, zone *models.DeliveryZone, input *ZoneInput) error {
	if input.RadiusKm == nil {
		return apperrors.ErrZoneRadiusRequired
	}
	radius := *input.RadiusKm
	if radius <= 0 || radius > MaxRadiusKm {
		return apperrors.ErrZoneInvalid.WithMessage("Радіус зони має бути в межах від 0 до 50 км")
	}

	center := geo.Point{}
	if input.CenterLat != nil && input.CenterLng != nil {
		center = geo.Point{Lat: *input.CenterLat, Lng: *input.CenterLng}
		zone.CenterLat = input.CenterLat
		zone.CenterLng = input.CenterLng
	} else {
		global, err := s.GetCenter(ctx)
		if err != nil {
			return err
		}
		center = geo.Point{Lat: global.Lat, Lng: global.Lng}
		zone.CenterLat = nil
		zone.CenterLng = nil
	}

	zone.RadiusKm = &radius
	zone.Geometry = geo.CircleToPolygon(center, radius, geo.DefaultCirclePoints)
	return nil
}

// applyPolygon 多边形型：结构校验后原样保存用户几何体
// 中心点由质心推导，质心失败时留空而不阻断创建
func (s *ZoneService) applyPolygon(zone *models.DeliveryZone, input *ZoneInput) error {
	if input.CustomGeometry == nil {
		return apperrors.ErrZoneGeometry.WithMessage("Для зони типу polygon потрібна геометрія")
	}
	if err := input.CustomGeometry.Validate(); err != nil {
		return apperrors.ErrZoneGeometry.WithError(err)
	}
	for _, pos := range input.CustomGeometry.Ring() {
		if !s.inBounds(pos.Lat(), pos.Lng()) {
			return apperrors.ErrZoneOutOfBounds
		}
	}

	zone.RadiusKm = nil
	zone.Geometry = *input.CustomGeometry

	if centroid, err := geo.Centroid(input.CustomGeometry); err == nil {
		zone.CenterLat = &centroid.Lat
		zone.CenterLng = &centroid.Lng
	} else {
		zone.CenterLat = nil
		zone.CenterLng = nil
	}
	return nil
}

// inBounds 顶点是否在配置的地理边界内
func (s *ZoneService) inBounds(lat, lng float64) bool {
	b := s.cfg.Bounds
	return lat >= b.MinLat && lat <= b.MaxLat && lng >= b.MinLng && lng <= b.MaxLng
}

// GetZone 获取配送区
func (s *ZoneService) GetZone(ctx context.Context, id int64) (*models.DeliveryZone, error) {
	zone, err := s.zones.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrZoneNotFound
		}
		return nil, apperrors.ErrDatabaseError.WithError(err)
	}
	return zone, nil
}

// ListZones 获取全部配送区（管理端，不走缓存）
func (s *ZoneService) ListZones(ctx context.Context) ([]*models.DeliveryZone, error) {
	zones, err := s.zones.List(ctx)
	if err != nil {
		return nil, apperrors.ErrDatabaseError.WithError(err)
	}
	return zones, nil
}

// DeleteZone 删除配送区
func (s *ZoneService) DeleteZone(ctx context.Context, id int64) error {
	if err := s.zones.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrZoneNotFound
		}
		if apperrors.IsAppError(err) {
			return err
		}
		return apperrors.ErrDatabaseError.WithError(err)
	}
	s.invalidateCache(ctx)
	return nil
}

// GetCenter 获取全局配送中心，未配置时回退到配置默认值
func (s *ZoneService) GetCenter(ctx context.Context) (*models.DeliveryCenter, error) {
	center, err := s.center.Get(ctx)
	if err == nil {
		return center, nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &models.DeliveryCenter{
			Lat:     s.cfg.DefaultCenterLat,
			Lng:     s.cfg.DefaultCenterLng,
			Address: s.cfg.DefaultCenterAddress,
		}, nil
	}
	return nil, apperrors.ErrDatabaseError.WithError(err)
}

// UpdateCenter 更新全局配送中心
//
// 只使缓存的配送区列表失效，不自动重算半径型几何体；
// 管理端在中心点变更后需显式触发 RecalculateAllRadiusZones。
func (s *ZoneService) UpdateCenter(ctx context.Context, lat, lng float64, address string) (*models.DeliveryCenter, error) {
	if !s.inBounds(lat, lng) {
		return nil, apperrors.ErrZoneOutOfBounds
	}
	center := &models.DeliveryCenter{Lat: lat, Lng: lng, Address: address, UpdatedAt: time.Now()}
	if err := s.center.Upsert(ctx, center); err != nil {
		if apperrors.IsAppError(err) {
			return nil, err
		}
		return nil, apperrors.ErrDatabaseError.WithError(err)
	}
	s.invalidateCache(ctx)
	logger.Info("配送中心已更新", logger.Module("delivery"))
	return center, nil
}

// RecalculateAllRadiusZones 按当前全局中心批量重算半径型配送区
// 多边形型配送区不受影响。返回实际修改的数量。
func (s *ZoneService) RecalculateAllRadiusZones(ctx context.Context) (int64, error) {
	global, err := s.GetCenter(ctx)
	if err != nil {
		return 0, err
	}

	zones, err := s.zones.ListRadius(ctx)
	if err != nil {
		return 0, apperrors.ErrDatabaseError.WithError(err)
	}

	updates := make([]repository.ZoneGeometryUpdate, 0, len(zones))
	for _, zone := range zones {
		if zone.RadiusKm == nil {
			continue
		}
		center := geo.Point{Lat: global.Lat, Lng: global.Lng}
		if zone.CenterLat != nil && zone.CenterLng != nil {
			center = geo.Point{Lat: *zone.CenterLat, Lng: *zone.CenterLng}
		}
		updates = append(updates, repository.ZoneGeometryUpdate{
			ID:       zone.ID,
			Geometry: geo.CircleToPolygon(center, *zone.RadiusKm, geo.DefaultCirclePoints),
		})
	}

	if len(updates) == 0 {
		return 0, nil
	}

	modified, err := s.zones.BulkUpdateGeometries(ctx, updates)
	if err != nil {
		if apperrors.IsAppError(err) {
			return 0, err
		}
		return 0, apperrors.ErrDatabaseError.WithError(err)
	}

	s.invalidateCache(ctx)
	logger.Info("半径型配送区已重算", logger.Module("delivery"))
	return modified, nil
}

// listEnabledCached 读取启用的配送区，优先走缓存
func (s *ZoneService) listEnabledCached(ctx context.Context) ([]*models.DeliveryZone, error) {
	var zones []*models.DeliveryZone
	if err := cache.Get(ctx, cache.KeyDeliveryZones, &zones); err == nil {
		metrics.RecordCacheHitGlobal("delivery_zones")
		return zones, nil
	}
	metrics.RecordCacheMissGlobal("delivery_zones")

	zones, err := s.zones.ListEnabled(ctx)
	if err != nil {
		return nil, apperrors.ErrDatabaseError.WithError(err)
	}

	if err := cache.Set(ctx, cache.KeyDeliveryZones, zones, s.cfg.ZoneCacheDuration()); err != nil {
		logger.Warn("配送区缓存写入失败", logger.Module("delivery"))
	}
	return zones, nil
}

// invalidateCache 写操作提交后使配送区缓存失效
func (s *ZoneService) invalidateCache(ctx context.Context) {
	if err := cache.Delete(ctx, cache.KeyDeliveryZones); err != nil {
		logger.Warn("配送区缓存失效失败", logger.Module("delivery"))
	}
}

// DetectZone 判定坐标所属的配送区
// 候选为全部启用的配送区，按优先级升序（同优先级按 ID）取
// 第一个包含该点的；无命中返回 nil。
func (s *ZoneService) DetectZone(ctx context.Context, pt geo.Point) (*models.DeliveryZone, error) {
	zones, err := s.listEnabledCached(ctx)
	if err != nil {
		return nil, err
	}

	for _, zone := range zones {
		if zone.Geometry.Contains(pt) {
			metrics.GetMetrics().RecordZoneDetection("found")
			return zone, nil
		}
	}

	metrics.GetMetrics().RecordZoneDetection("not_found")
	return nil, nil
}

// DetectByCoordinates 按坐标构建配送判定结果
func (s *ZoneService) DetectByCoordinates(ctx context.Context, pt geo.Point) (*models.ZoneDetectionResult, error) {
	zone, err := s.DetectZone(ctx, pt)
	if err != nil {
		return nil, err
	}

	coords := pt
	if zone == nil {
		return &models.ZoneDetectionResult{
			Coordinates: &coords,
			Available:   false,
			Message:     "На жаль, ця адреса поза зоною доставки",
		}, nil
	}

	return &models.ZoneDetectionResult{
		ZoneID:                &zone.ID,
		ZoneName:              zone.Name,
		DeliveryFee:           zone.DeliveryFee,
		MinOrderAmount:        zone.MinOrderAmount,
		FreeDeliveryThreshold: zone.FreeDeliveryThreshold,
		Coordinates:           &coords,
		Available:             true,
		Message:               "Доставка доступна",
	}, nil
}

// ResolveAddress 按自由文本地址判定配送区
//
// 地理编码失败不作为错误上抛：对顾客而言“找不到地址”与
// “服务暂不可用”都表现为 available=false。
func (s *ZoneService) ResolveAddress(ctx context.Context, address string) (*models.ZoneDetectionResult, error) {
	loc, err := s.geocoder.Geocode(ctx, address)
	if err != nil || loc == nil {
		metrics.GetMetrics().RecordGeocodeRequest("failed")
		logger.Warn("地理编码失败", logger.Module("delivery"))
		return &models.ZoneDetectionResult{
			Available: false,
			Message:   "Не вдалося визначити координати адреси",
		}, nil
	}
	metrics.GetMetrics().RecordGeocodeRequest("ok")

	return s.DetectByCoordinates(ctx, geo.Point{Lat: loc.Lat, Lng: loc.Lng})
}
