// Package delivery 配送区服务单元测试
package delivery

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/VladDeliar/PoS/internal/common/cache"
	"github.com/VladDeliar/PoS/internal/common/config"
	apperrors "github.com/VladDeliar/PoS/internal/common/errors"
	"github.com/VladDeliar/PoS/internal/common/utils"
	"github.com/VladDeliar/PoS/internal/geo"
	"github.com/VladDeliar/PoS/internal/models"
	"github.com/VladDeliar/PoS/internal/store"
	"github.com/VladDeliar/PoS/pkg/geocode"
)

func testDeliveryConfig() *config.DeliveryConfig {
	return &config.DeliveryConfig{
		DefaultCenterLat:     48.9226,
		DefaultCenterLng:     24.7111,
		DefaultCenterAddress: "Івано-Франківськ",
		Bounds: config.BoundsConfig{
			MinLat: 44.0, MaxLat: 52.0,
			MinLng: 22.0, MaxLng: 40.0,
		},
		ZoneCacheTTL: 1800,
	}
}

func setupZoneService(t *testing.T) (*ZoneService, *geocode.MockGeocoder, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.DeliveryZone{}, &models.DeliveryCenter{}))

	stores := store.NewGormStores(db)
	geocoder := geocode.NewMockGeocoder()
	svc := NewZoneService(stores.Zones, stores.Center, geocoder, testDeliveryConfig())
	return svc, geocoder, db
}

func radiusInput(opts ...func(*ZoneInput)) *ZoneInput {
	input := &ZoneInput{
		Name:           "Центр міста",
		ZoneType:       models.ZoneTypeRadius,
		RadiusKm:       utils.Float64Ptr(5),
		DeliveryFee:    50,
		MinOrderAmount: 200,
		Priority:       1,
	}
	for _, opt := range opts {
		opt(input)
	}
	return input
}

func polygonInput(opts ...func(*ZoneInput)) *ZoneInput {
	input := &ZoneInput{
		Name:     "Кастомна зона",
		ZoneType: models.ZoneTypePolygon,
		CustomGeometry: &geo.Polygon{
			Type: "Polygon",
			Coordinates: [][]geo.Position{{
				{24.6, 48.8}, {24.8, 48.8}, {24.8, 49.0}, {24.6, 49.0}, {24.6, 48.8},
			}},
		},
		DeliveryFee:    70,
		MinOrderAmount: 300,
		Priority:       2,
	}
	for _, opt := range opts {
		opt(input)
	}
	return input
}

func TestZoneService_CreateRadiusZone(t *testing.T) {
	svc, _, _ := setupZoneService(t)
	ctx := context.Background()

	t.Run("使用全局中心生成几何体", func(t *testing.T) {
		zone, err := svc.CreateZone(ctx, radiusInput())
		require.NoError(t, err)

		assert.True(t, zone.Enabled)
		assert.Nil(t, zone.CenterLat)
		require.Len(t, zone.Geometry.Ring(), geo.DefaultCirclePoints+1)

		centroid, err := geo.Centroid(&zone.Geometry)
		require.NoError(t, err)
		assert.InDelta(t, 48.9226, centroid.Lat, 0.001)
		assert.InDelta(t, 24.7111, centroid.Lng, 0.001)
	})

	t.Run("自有中心点覆盖全局中心", func(t *testing.T) {
		input := radiusInput(func(i *ZoneInput) {
			i.Name = "Філія"
			i.CenterLat = utils.Float64Ptr(49.5)
			i.CenterLng = utils.Float64Ptr(25.5)
		})
		zone, err := svc.CreateZone(ctx, input)
		require.NoError(t, err)

		require.NotNil(t, zone.CenterLat)
		centroid, err := geo.Centroid(&zone.Geometry)
		require.NoError(t, err)
		assert.InDelta(t, 49.5, centroid.Lat, 0.001)
	})

	t.Run("缺少半径", func(t *testing.T) {
		input := radiusInput(func(i *ZoneInput) { i.RadiusKm = nil })
		_, err := svc.CreateZone(ctx, input)
		assert.ErrorIs(t, err, apperrors.ErrZoneRadiusRequired)
	})

	t.Run("半径超出上限", func(t *testing.T) {
		input := radiusInput(func(i *ZoneInput) { i.RadiusKm = utils.Float64Ptr(80) })
		_, err := svc.CreateZone(ctx, input)
		require.Error(t, err)
		assert.Equal(t, apperrors.ErrZoneInvalid.Code, apperrors.GetAppError(err).Code)
	})
}

func TestZoneService_CreatePolygonZone(t *testing.T) {
	svc, _, _ := setupZoneService(t)
	ctx := context.Background()

	t.Run("质心推导中心点", func(t *testing.T) {
		zone, err := svc.CreateZone(ctx, polygonInput())
		require.NoError(t, err)

		require.NotNil(t, zone.CenterLat)
		assert.InDelta(t, 48.9, *zone.CenterLat, 1e-9)
		assert.InDelta(t, 24.7, *zone.CenterLng, 1e-9)
		assert.Nil(t, zone.RadiusKm)
	})

	t.Run("顶点越界", func(t *testing.T) {
		input := polygonInput(func(i *ZoneInput) {
			i.CustomGeometry = &geo.Polygon{
				Type: "Polygon",
				Coordinates: [][]geo.Position{{
					{24.6, 48.8}, {55.0, 48.8}, {24.8, 49.0}, {24.6, 48.8},
				}},
			}
		})
		_, err := svc.CreateZone(ctx, input)
		assert.ErrorIs(t, err, apperrors.ErrZoneOutOfBounds)
	})

	t.Run("未闭合的环", func(t *testing.T) {
		input := polygonInput(func(i *ZoneInput) {
			i.CustomGeometry = &geo.Polygon{
				Type: "Polygon",
				Coordinates: [][]geo.Position{{
					{24.6, 48.8}, {24.8, 48.8}, {24.8, 49.0}, {24.6, 49.0},
				}},
			}
		})
		_, err := svc.CreateZone(ctx, input)
		require.Error(t, err)
		assert.Equal(t, apperrors.ErrZoneGeometry.Code, apperrors.GetAppError(err).Code)
	})

	t.Run("缺少几何体", func(t *testing.T) {
		input := polygonInput(func(i *ZoneInput) { i.CustomGeometry = nil })
		_, err := svc.CreateZone(ctx, input)
		require.Error(t, err)
		assert.Equal(t, apperrors.ErrZoneGeometry.Code, apperrors.GetAppError(err).Code)
	})
}

func TestZoneService_UpdateZone(t *testing.T) {
	svc, _, _ := setupZoneService(t)
	ctx := context.Background()

	zone, err := svc.CreateZone(ctx, radiusInput())
	require.NoError(t, err)

	t.Run("全量重算几何体", func(t *testing.T) {
		input := radiusInput(func(i *ZoneInput) {
			i.RadiusKm = utils.Float64Ptr(10)
		})
		updated, err := svc.UpdateZone(ctx, zone.ID, input)
		require.NoError(t, err)
		assert.InDelta(t, 10, *updated.RadiusKm, 1e-9)

		// 顶点到中心距离接近新半径
		centroid, err := geo.Centroid(&updated.Geometry)
		require.NoError(t, err)
		dist := geo.HaversineKm(centroid, geo.Point{
			Lat: updated.Geometry.Ring()[0].Lat(),
			Lng: updated.Geometry.Ring()[0].Lng(),
		})
		assert.InDelta(t, 10, dist, 0.5)
	})

	t.Run("不存在的配送区", func(t *testing.T) {
		_, err := svc.UpdateZone(ctx, 99999, radiusInput())
		assert.ErrorIs(t, err, apperrors.ErrZoneNotFound)
	})
}

func TestZoneService_DetectZone(t *testing.T) {
	svc, _, _ := setupZoneService(t)
	ctx := context.Background()

	// 两个重叠的配送区，优先级 1 和 2
	_, err := svc.CreateZone(ctx, radiusInput(func(i *ZoneInput) {
		i.Name = "Внутрішня"
		i.RadiusKm = utils.Float64Ptr(3)
		i.Priority = 1
	}))
	require.NoError(t, err)
	_, err = svc.CreateZone(ctx, radiusInput(func(i *ZoneInput) {
		i.Name = "Зовнішня"
		i.RadiusKm = utils.Float64Ptr(10)
		i.Priority = 2
	}))
	require.NoError(t, err)

	t.Run("重叠时取最低优先级值", func(t *testing.T) {
		zone, err := svc.DetectZone(ctx, geo.Point{Lat: 48.9226, Lng: 24.7111})
		require.NoError(t, err)
		require.NotNil(t, zone)
		assert.Equal(t, "Внутрішня", zone.Name)
	})

	t.Run("只落在外圈", func(t *testing.T) {
		zone, err := svc.DetectZone(ctx, geo.Point{Lat: 48.98, Lng: 24.7111})
		require.NoError(t, err)
		require.NotNil(t, zone)
		assert.Equal(t, "Зовнішня", zone.Name)
	})

	t.Run("所有配送区之外", func(t *testing.T) {
		zone, err := svc.DetectZone(ctx, geo.Point{Lat: 50.45, Lng: 30.52})
		require.NoError(t, err)
		assert.Nil(t, zone)
	})

	t.Run("停用的配送区不参与判定", func(t *testing.T) {
		disabled := false
		_, err := svc.CreateZone(ctx, radiusInput(func(i *ZoneInput) {
			i.Name = "Вимкнена"
			i.RadiusKm = utils.Float64Ptr(2)
			i.Priority = 0
			i.Enabled = &disabled
		}))
		require.NoError(t, err)

		zone, err := svc.DetectZone(ctx, geo.Point{Lat: 48.9226, Lng: 24.7111})
		require.NoError(t, err)
		require.NotNil(t, zone)
		assert.Equal(t, "Внутрішня", zone.Name)
	})
}

func TestZoneService_DetectByCoordinates(t *testing.T) {
	svc, _, _ := setupZoneService(t)
	ctx := context.Background()

	_, err := svc.CreateZone(ctx, radiusInput())
	require.NoError(t, err)

	t.Run("命中", func(t *testing.T) {
		result, err := svc.DetectByCoordinates(ctx, geo.Point{Lat: 48.9226, Lng: 24.7111})
		require.NoError(t, err)
		assert.True(t, result.Available)
		assert.Equal(t, "Центр міста", result.ZoneName)
		assert.InDelta(t, 50, result.DeliveryFee, 1e-9)
		require.NotNil(t, result.Coordinates)
	})

	t.Run("未命中", func(t *testing.T) {
		result, err := svc.DetectByCoordinates(ctx, geo.Point{Lat: 50.45, Lng: 30.52})
		require.NoError(t, err)
		assert.False(t, result.Available)
		assert.Nil(t, result.ZoneID)
		require.NotNil(t, result.Coordinates)
	})
}

func TestZoneService_ResolveAddress(t *testing.T) {
	svc, geocoder, _ := setupZoneService(t)
	ctx := context.Background()

	_, err := svc.CreateZone(ctx, radiusInput())
	require.NoError(t, err)

	geocoder.Addresses["вул. Незалежності, 5"] = geocode.Result{Lat: 48.9226, Lng: 24.7111}
	geocoder.Addresses["с. Далеке"] = geocode.Result{Lat: 50.45, Lng: 30.52}

	t.Run("адреса в зоні", func(t *testing.T) {
		result, err := svc.ResolveAddress(ctx, "вул. Незалежності, 5")
		require.NoError(t, err)
		assert.True(t, result.Available)
		assert.Equal(t, "Центр міста", result.ZoneName)
	})

	t.Run("адреса поза зоною", func(t *testing.T) {
		result, err := svc.ResolveAddress(ctx, "с. Далеке")
		require.NoError(t, err)
		assert.False(t, result.Available)
		require.NotNil(t, result.Coordinates)
		assert.InDelta(t, 50.45, result.Coordinates.Lat, 1e-9)
	})

	t.Run("геокодування не вдалося", func(t *testing.T) {
		result, err := svc.ResolveAddress(ctx, "невідома адреса")
		require.NoError(t, err)
		assert.False(t, result.Available)
		assert.Nil(t, result.Coordinates)
	})
}

func TestZoneService_UpdateCenterAndRecalculate(t *testing.T) {
	svc, _, _ := setupZoneService(t)
	ctx := context.Background()

	radius, err := svc.CreateZone(ctx, radiusInput())
	require.NoError(t, err)
	polygon, err := svc.CreateZone(ctx, polygonInput())
	require.NoError(t, err)

	polyBefore, err := json.Marshal(polygon.Geometry)
	require.NoError(t, err)

	// 两步协议：先改中心，再显式重算
	_, err = svc.UpdateCenter(ctx, 49.84, 24.03, "Львів")
	require.NoError(t, err)

	staleZone, err := svc.GetZone(ctx, radius.ID)
	require.NoError(t, err)
	staleCentroid, err := geo.Centroid(&staleZone.Geometry)
	require.NoError(t, err)
	assert.InDelta(t, 48.9226, staleCentroid.Lat, 0.001, "几何体在重算前保持陈旧")

	modified, err := svc.RecalculateAllRadiusZones(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), modified)

	freshZone, err := svc.GetZone(ctx, radius.ID)
	require.NoError(t, err)
	freshCentroid, err := geo.Centroid(&freshZone.Geometry)
	require.NoError(t, err)
	assert.InDelta(t, 49.84, freshCentroid.Lat, 0.001)

	// 多边形配送区字节级不变
	polyAfter, err := svc.GetZone(ctx, polygon.ID)
	require.NoError(t, err)
	polyAfterJSON, err := json.Marshal(polyAfter.Geometry)
	require.NoError(t, err)
	assert.Equal(t, string(polyBefore), string(polyAfterJSON))
}

func TestZoneService_RecalculateTwiceFollowsLatestCenter(t *testing.T) {
	svc, _, _ := setupZoneService(t)
	ctx := context.Background()

	zone, err := svc.CreateZone(ctx, radiusInput())
	require.NoError(t, err)
	override, err := svc.CreateZone(ctx, radiusInput(func(i *ZoneInput) {
		i.Name = "Філія"
		i.CenterLat = utils.Float64Ptr(49.5)
		i.CenterLng = utils.Float64Ptr(25.5)
	}))
	require.NoError(t, err)

	// 第一轮：改中心后重算
	_, err = svc.UpdateCenter(ctx, 49.84, 24.03, "Львів")
	require.NoError(t, err)
	_, err = svc.RecalculateAllRadiusZones(ctx)
	require.NoError(t, err)

	// 重算不得把全局中心写成配送区自有中心
	afterFirst, err := svc.GetZone(ctx, zone.ID)
	require.NoError(t, err)
	assert.Nil(t, afterFirst.CenterLat)
	assert.Nil(t, afterFirst.CenterLng)

	// 第二轮：再改中心重算，几何体必须跟随最新全局中心
	_, err = svc.UpdateCenter(ctx, 50.45, 30.52, "Київ")
	require.NoError(t, err)
	_, err = svc.RecalculateAllRadiusZones(ctx)
	require.NoError(t, err)

	afterSecond, err := svc.GetZone(ctx, zone.ID)
	require.NoError(t, err)
	centroid, err := geo.Centroid(&afterSecond.Geometry)
	require.NoError(t, err)
	assert.InDelta(t, 50.45, centroid.Lat, 0.001)
	assert.InDelta(t, 30.52, centroid.Lng, 0.001)
	assert.Nil(t, afterSecond.CenterLat)

	// 自有中心的配送区两轮都不动
	overrideAfter, err := svc.GetZone(ctx, override.ID)
	require.NoError(t, err)
	require.NotNil(t, overrideAfter.CenterLat)
	assert.InDelta(t, 49.5, *overrideAfter.CenterLat, 1e-9)
	overrideCentroid, err := geo.Centroid(&overrideAfter.Geometry)
	require.NoError(t, err)
	assert.InDelta(t, 49.5, overrideCentroid.Lat, 0.001)
}

func TestZoneService_CenterOutOfBounds(t *testing.T) {
	svc, _, _ := setupZoneService(t)

	_, err := svc.UpdateCenter(context.Background(), 10.0, 10.0, "Десь далеко")
	assert.ErrorIs(t, err, apperrors.ErrZoneOutOfBounds)
}

func TestZoneService_ZoneListCache(t *testing.T) {
	svc, _, _ := setupZoneService(t)
	ctx := context.Background()

	s, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(s.Close)

	client := redis.NewClient(&redis.Options{Addr: s.Addr()})
	cache.SetClient(client)
	t.Cleanup(func() {
		_ = client.Close()
		cache.SetClient(nil)
	})

	_, err = svc.CreateZone(ctx, radiusInput())
	require.NoError(t, err)

	// 判定后缓存被填充
	_, err = svc.DetectZone(ctx, geo.Point{Lat: 48.9226, Lng: 24.7111})
	require.NoError(t, err)
	assert.True(t, s.Exists(cache.KeyDeliveryZones))

	// 写操作使缓存失效
	_, err = svc.CreateZone(ctx, radiusInput(func(i *ZoneInput) { i.Name = "Нова" }))
	require.NoError(t, err)
	assert.False(t, s.Exists(cache.KeyDeliveryZones))

	// 缓存命中路径返回相同结果
	zone, err := svc.DetectZone(ctx, geo.Point{Lat: 48.9226, Lng: 24.7111})
	require.NoError(t, err)
	require.NotNil(t, zone)
	zone, err = svc.DetectZone(ctx, geo.Point{Lat: 48.9226, Lng: 24.7111})
	require.NoError(t, err)
	require.NotNil(t, zone)
	assert.Equal(t, "Центр міста", zone.Name)
}
