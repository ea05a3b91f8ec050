package geo

// DistanceSQL 与 DistanceKm 等价的SQL表达式，PostgreSQL 与 MySQL 均可执行。
// 坐标与中心完全相同时直接取0，不经过 ACOS。
// 参数顺序：center 纬度、center 经度、center 纬度、center 经度、center 纬度。
const DistanceSQL = `CASE WHEN latitude = ? AND longitude = ? THEN 0 ELSE 6371 * ACOS(LEAST(1.0, GREATEST(-1.0,
	COS(RADIANS(?)) * COS(RADIANS(latitude)) * COS(RADIANS(longitude) - RADIANS(?))
	+ SIN(RADIANS(?)) * SIN(RADIANS(latitude))))) END`

// WithinSQL 半径过滤条件，最后一个参数为半径（千米）
const WithinSQL = DistanceSQL + ` < ?`

// WithinArgs 按 WithinSQL 的占位符顺序返回参数
func WithinArgs(center Point, radiusKm float64) []interface{} {
	return []interface{}{
		center.Latitude, center.Longitude,
		center.Latitude, center.Longitude, center.Latitude,
		radiusKm,
	}
}
