package geo

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCircleToPolygon(t *testing.T) {
	center := Point{Lat: 48.9226, Lng: 24.7111}

	t.Run("生成闭合环", func(t *testing.T) {
		poly := CircleToPolygon(center, 5, 64)

		assert.Equal(t, "Polygon", poly.Type)
		require.Len(t, poly.Coordinates, 1)
		ring := poly.Ring()
		// 64 个顶点 + 1 个闭合点
		require.Len(t, ring, 65)
		assert.Equal(t, ring[0], ring[len(ring)-1])
	})

	t.Run("顶点到圆心距离接近半径", func(t *testing.T) {
		radius := 5.0
		poly := CircleToPolygon(center, radius, 64)

		for _, pos := range poly.Ring() {
			d := HaversineKm(center, Point{Lat: pos.Lat(), Lng: pos.Lng()})
			assert.InDelta(t, radius, d, radius*0.01)
		}
	})

	t.Run("默认顶点数", func(t *testing.T) {
		poly := CircleToPolygon(center, 3, 0)
		assert.Len(t, poly.Ring(), DefaultCirclePoints+1)
	})

	t.Run("高纬度经度修正", func(t *testing.T) {
		poly := CircleToPolygon(Point{Lat: 60, Lng: 30}, 10, 32)
		for _, pos := range poly.Ring() {
			d := HaversineKm(Point{Lat: 60, Lng: 30}, Point{Lat: pos.Lat(), Lng: pos.Lng()})
			assert.InDelta(t, 10.0, d, 0.2)
		}
	})
}

func TestCentroid(t *testing.T) {
	t.Run("单位正方形质心", func(t *testing.T) {
		poly := Polygon{
			Type: "Polygon",
			Coordinates: [][]Position{{
				{0, 0}, {1, 0}, {1, 1}, {0, 1}, {0, 0},
			}},
		}

		c, err := Centroid(&poly)
		require.NoError(t, err)
		assert.InDelta(t, 0.5, c.Lat, 1e-9)
		assert.InDelta(t, 0.5, c.Lng, 1e-9)
	})

	t.Run("圆多边形质心接近圆心", func(t *testing.T) {
		center := Point{Lat: 48.92, Lng: 24.71}
		poly := CircleToPolygon(center, 5, 64)

		c, err := Centroid(&poly)
		require.NoError(t, err)
		assert.InDelta(t, center.Lat, c.Lat, 1e-6)
		assert.InDelta(t, center.Lng, c.Lng, 1e-6)
	})

	t.Run("顶点不足返回错误", func(t *testing.T) {
		poly := Polygon{
			Type:        "Polygon",
			Coordinates: [][]Position{{{0, 0}, {1, 0}, {0, 0}}},
		}
		_, err := Centroid(&poly)
		assert.Error(t, err)
	})

	t.Run("非多边形返回错误", func(t *testing.T) {
		poly := Polygon{Type: "Point"}
		_, err := Centroid(&poly)
		assert.Error(t, err)

		_, err = Centroid(nil)
		assert.Error(t, err)
	})
}

func TestPolygonContains(t *testing.T) {
	square := Polygon{
		Type: "Polygon",
		Coordinates: [][]Position{{
			{0, 0}, {10, 0}, {10, 10}, {0, 10}, {0, 0},
		}},
	}

	t.Run("内部点", func(t *testing.T) {
		assert.True(t, square.Contains(Point{Lat: 5, Lng: 5}))
		assert.True(t, square.Contains(Point{Lat: 0.001, Lng: 9.999}))
	})

	t.Run("外部点", func(t *testing.T) {
		assert.False(t, square.Contains(Point{Lat: 15, Lng: 5}))
		assert.False(t, square.Contains(Point{Lat: -1, Lng: -1}))
	})

	t.Run("圆多边形包含圆心", func(t *testing.T) {
		center := Point{Lat: 48.92, Lng: 24.71}
		poly := CircleToPolygon(center, 5, 64)

		assert.True(t, poly.Contains(center))
		// 半径之外
		assert.False(t, poly.Contains(Point{Lat: 48.92, Lng: 25.5}))
	})

	t.Run("凹多边形", func(t *testing.T) {
		// U 形：中部凹槽不属于多边形
		u := Polygon{
			Type: "Polygon",
			Coordinates: [][]Position{{
				{0, 0}, {10, 0}, {10, 10}, {7, 10}, {7, 3}, {3, 3}, {3, 10}, {0, 10}, {0, 0},
			}},
		}
		assert.True(t, u.Contains(Point{Lat: 1, Lng: 5}))
		assert.False(t, u.Contains(Point{Lat: 8, Lng: 5}))
	})
}

func TestPolygonValidate(t *testing.T) {
	t.Run("合法多边形", func(t *testing.T) {
		poly := CircleToPolygon(Point{Lat: 48.92, Lng: 24.71}, 5, 64)
		assert.NoError(t, poly.Validate())
	})

	t.Run("类型错误", func(t *testing.T) {
		poly := Polygon{Type: "MultiPolygon", Coordinates: [][]Position{{{0, 0}, {1, 0}, {1, 1}, {0, 0}}}}
		assert.Error(t, poly.Validate())
	})

	t.Run("未闭合环", func(t *testing.T) {
		poly := Polygon{
			Type:        "Polygon",
			Coordinates: [][]Position{{{0, 0}, {1, 0}, {1, 1}, {0, 1}}},
		}
		assert.Error(t, poly.Validate())
	})

	t.Run("顶点数超限", func(t *testing.T) {
		ring := make([]Position, 0, MaxVertices+2)
		for i := 0; i <= MaxVertices; i++ {
			ring = append(ring, Position{float64(i), float64(i % 2)})
		}
		ring = append(ring, ring[0])
		poly := Polygon{Type: "Polygon", Coordinates: [][]Position{ring}}
		assert.Error(t, poly.Validate())
	})
}

func TestPolygonSQLRoundTrip(t *testing.T) {
	t.Run("Value和Scan往返一致", func(t *testing.T) {
		orig := CircleToPolygon(Point{Lat: 48.92, Lng: 24.71}, 5, 16)

		v, err := orig.Value()
		require.NoError(t, err)

		var decoded Polygon
		require.NoError(t, decoded.Scan(v))
		assert.Equal(t, orig, decoded)

		// 再次序列化字节级一致
		v2, err := decoded.Value()
		require.NoError(t, err)
		assert.Equal(t, v, v2)
	})

	t.Run("扫描字符串", func(t *testing.T) {
		raw, _ := json.Marshal(CircleToPolygon(Point{Lat: 1, Lng: 2}, 1, 8))
		var p Polygon
		require.NoError(t, p.Scan(string(raw)))
		assert.Equal(t, "Polygon", p.Type)
	})

	t.Run("扫描NULL", func(t *testing.T) {
		var p Polygon
		require.NoError(t, p.Scan(nil))
		assert.Empty(t, p.Type)
	})
}

func TestHaversineKm(t *testing.T) {
	t.Run("同一点距离为零", func(t *testing.T) {
		p := Point{Lat: 48.92, Lng: 24.71}
		assert.Zero(t, HaversineKm(p, p))
	})

	t.Run("已知城市间距离", func(t *testing.T) {
		kyiv := Point{Lat: 50.4501, Lng: 30.5234}
		lviv := Point{Lat: 49.8397, Lng: 24.0297}
		d := HaversineKm(kyiv, lviv)
		// 基辅-利沃夫约 470 公里
		assert.True(t, math.Abs(d-470) < 10, "got %f", d)
	})
}
