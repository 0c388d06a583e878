package simulator

import "math/rand"

// BoundingBox 演示区域边界
type BoundingBox struct {
	MinLat float64
	MaxLat float64
	MinLon float64
	MaxLon float64
}

// Contains 坐标是否在边界内
func (b BoundingBox) Contains(lat, lon float64) bool {
	return lat >= b.MinLat && lat <= b.MaxLat && lon >= b.MinLon && lon <= b.MaxLon
}

// Advance 对移动资产的位置做一次有界随机扰动。
// 越过边界时反射回区域内，避免无界漂移。
func Advance(lat, lon float64, box BoundingBox, maxStep float64, rng *rand.Rand) (float64, float64) {
	lat += (rng.Float64()*2 - 1) * maxStep
	lon += (rng.Float64()*2 - 1) * maxStep

	lat = reflect(lat, box.MinLat, box.MaxLat)
	lon = reflect(lon, box.MinLon, box.MaxLon)
	return lat, lon
}

// reflect 边界反射；步长大于区域尺寸时退化为截断
func reflect(v, min, max float64) float64 {
	if v < min {
		v = 2*min - v
	}
	if v > max {
		v = 2*max - v
	}
	if v < min {
		v = min
	}
	if v > max {
		v = max
	}
	return v
}
