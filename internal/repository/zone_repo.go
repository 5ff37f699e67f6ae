// Package repository 提供数据访问层
package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/VladDeliar/PoS/internal/geo"
	"github.com/VladDeliar/PoS/internal/models"
)

// ZoneRepository 配送区仓储
type ZoneRepository struct {
	db *gorm.DB
}

// NewZoneRepository 创建配送区仓储
func NewZoneRepository(db *gorm.DB) *ZoneRepository {
	return &ZoneRepository{db: db}
}

// Create 创建配送区
func (r *ZoneRepository) Create(ctx context.Context, zone *models.DeliveryZone) error {
	return r.db.WithContext(ctx).Create(zone).Error
}

// GetByID 根据 ID 获取配送区
func (r *ZoneRepository) GetByID(ctx context.Context, id int64) (*models.DeliveryZone, error) {
	var zone models.DeliveryZone
	err := r.db.WithContext(ctx).First(&zone, id).Error
	if err != nil {
		return nil, err
	}
	return &zone, nil
}

// Update 更新配送区
func (r *ZoneRepository) Update(ctx context.Context, zone *models.DeliveryZone) error {
	return r.db.WithContext(ctx).Save(zone).Error
}

// Delete 删除配送区
func (r *ZoneRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&models.DeliveryZone{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// List 获取全部配送区，按优先级升序（同优先级按 ID 保证确定性）
func (r *ZoneRepository) List(ctx context.Context) ([]*models.DeliveryZone, error) {
	var zones []*models.DeliveryZone
	err := r.db.WithContext(ctx).
		Order("priority ASC, id ASC").
		Find(&zones).Error
	return zones, err
}

// ListEnabled 获取启用的配送区，按优先级升序
func (r *ZoneRepository) ListEnabled(ctx context.Context) ([]*models.DeliveryZone, error) {
	var zones []*models.DeliveryZone
	err := r.db.WithContext(ctx).
		Where("enabled = ?", true).
		Order("priority ASC, id ASC").
		Find(&zones).Error
	return zones, err
}

// ListRadius 获取全部圆形配送区
func (r *ZoneRepository) ListRadius(ctx context.Context) ([]*models.DeliveryZone, error) {
	var zones []*models.DeliveryZone
	err := r.db.WithContext(ctx).
		Where("zone_type = ?", models.ZoneTypeRadius).
		Order("priority ASC, id ASC").
		Find(&zones).Error
	return zones, err
}

// ZoneGeometryUpdate 单个配送区的几何重算结果
type ZoneGeometryUpdate struct {
	ID       int64
	Geometry geo.Polygon
}

// BulkUpdateGeometries 在单个事务内批量重写几何体
// 只写 geometry 列，center_lat/center_lng 保持原值：
// 这两列的语义是「配送区自定义中心」，重算不得把全局中心写进去
// 返回实际修改的行数；任一更新失败则整体回滚
func (r *ZoneRepository) BulkUpdateGeometries(ctx context.Context, updates []ZoneGeometryUpdate) (int64, error) {
	var modified int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, u := range updates {
			result := tx.Model(&models.DeliveryZone{}).
				Where("id = ?", u.ID).
				Updates(map[string]interface{}{
					"geometry": u.Geometry,
				})
			if result.Error != nil {
				return result.Error
			}
			modified += result.RowsAffected
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return modified, nil
}

// CenterRepository 配送中心仓储
type CenterRepository struct {
	db *gorm.DB
}

// NewCenterRepository 创建配送中心仓储
func NewCenterRepository(db *gorm.DB) *CenterRepository {
	return &CenterRepository{db: db}
}

// Get 获取配送中心（未配置时返回 gorm.ErrRecordNotFound）
func (r *CenterRepository) Get(ctx context.Context) (*models.DeliveryCenter, error) {
	var center models.DeliveryCenter
	err := r.db.WithContext(ctx).First(&center).Error
	if err != nil {
		return nil, err
	}
	return &center, nil
}

// Upsert 更新或创建配送中心（单行表）
func (r *CenterRepository) Upsert(ctx context.Context, center *models.DeliveryCenter) error {
	var existing models.DeliveryCenter
	err := r.db.WithContext(ctx).First(&existing).Error
	if err == gorm.ErrRecordNotFound {
		return r.db.WithContext(ctx).Create(center).Error
	}
	if err != nil {
		return err
	}
	center.ID = existing.ID
	return r.db.WithContext(ctx).Save(center).Error
}
