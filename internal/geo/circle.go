package geo

import (
	"fmt"
	"math"
)

// EarthRadiusKm 地球平均半径（公里）
const EarthRadiusKm = 6371.0

// DefaultCirclePoints 圆近似多边形的默认顶点数
const DefaultCirclePoints = 64

// CircleToPolygon 将圆近似为正 n 边形
//
// 纬度步长按球面角直接换算，经度步长除以 cos(lat) 修正
// 纬线收缩，使生成的多边形在地面上接近正圆。
func CircleToPolygon(center Point, radiusKm float64, numPoints int) Polygon {
	if numPoints <= 0 {
		numPoints = DefaultCirclePoints
	}

	latFactor := radiusKm / EarthRadiusKm * (180 / math.Pi)
	lngFactor := latFactor / math.Cos(center.Lat*math.Pi/180)

	ring := make([]Position, 0, numPoints+1)
	for i := 0; i < numPoints; i++ {
		angle := 2 * math.Pi * float64(i) / float64(numPoints)
		ring = append(ring, Position{
			center.Lng + lngFactor*math.Cos(angle),
			center.Lat + latFactor*math.Sin(angle),
		})
	}
	// 闭合环
	ring = append(ring, ring[0])

	return Polygon{
		Type:        "Polygon",
		Coordinates: [][]Position{ring},
	}
}

// Centroid 计算多边形质心（顶点算术平均，不含闭合点）
func Centroid(p *Polygon) (Point, error) {
	if p == nil || p.Type != "Polygon" {
		return Point{}, fmt.Errorf("geometry is not a Polygon")
	}
	ring := p.Ring()
	if len(ring) < MinRingPoints {
		return Point{}, fmt.Errorf("polygon ring must contain at least %d points", MinRingPoints)
	}

	// 闭合环时排除重复的末尾点
	n := len(ring)
	if ring[0] == ring[n-1] {
		n--
	}

	var sumLat, sumLng float64
	for i := 0; i < n; i++ {
		sumLng += ring[i].Lng()
		sumLat += ring[i].Lat()
	}
	return Point{
		Lat: sumLat / float64(n),
		Lng: sumLng / float64(n),
	}, nil
}

// HaversineKm 计算两点间大圆距离（公里）
func HaversineKm(a, b Point) float64 {
	toRad := math.Pi / 180
	dLat := (b.Lat - a.Lat) * toRad
	dLng := (b.Lng - a.Lng) * toRad
	lat1 := a.Lat * toRad
	lat2 := b.Lat * toRad

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * EarthRadiusKm * math.Asin(math.Sqrt(h))
}
