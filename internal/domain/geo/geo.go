// Package geo 实现基于球面余弦定理的大圆距离计算，以及对应的SQL过滤表达式。
package geo

import (
	"math"

	"org-directory-service/internal/error/errs"
)

// EarthRadiusKm 地球平均半径（千米）
const EarthRadiusKm = 6371.0

// Point 经纬度坐标（角度）
type Point struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Validate 仅拒绝非有限数值；范围校验由HTTP层负责
func (p Point) Validate() error {
	if !isFinite(p.Latitude) {
		return errs.InvalidGeometry("latitude %v is not finite", p.Latitude)
	}
	if !isFinite(p.Longitude) {
		return errs.InvalidGeometry("longitude %v is not finite", p.Longitude)
	}
	return nil
}

// ValidateRadius 半径必须是有限数值
func ValidateRadius(radiusKm float64) error {
	if !isFinite(radiusKm) {
		return errs.InvalidGeometry("radius %v is not finite", radiusKm)
	}
	return nil
}

// Clamp 将 acos 的参数限制在 [-1, 1]，避免浮点误差导致 NaN
func Clamp(x float64) float64 {
	if x > 1 {
		return 1
	}
	if x < -1 {
		return -1
	}
	return x
}

// DistanceKm 返回两点间的大圆距离（千米）。同一坐标恒为0
func DistanceKm(a, b Point) float64 {
	if a == b {
		return 0
	}
	lat1 := radians(a.Latitude)
	lat2 := radians(b.Latitude)
	dLon := radians(b.Longitude) - radians(a.Longitude)

	cosine := math.Cos(lat1)*math.Cos(lat2)*math.Cos(dLon) + math.Sin(lat1)*math.Sin(lat2)
	return EarthRadiusKm * math.Acos(Clamp(cosine))
}

// Within 严格小于：恰好位于半径边界上的点不算在内
func Within(center, p Point, radiusKm float64) bool {
	return DistanceKm(center, p) < radiusKm
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
