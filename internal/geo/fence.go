package geo

// Fence 圆形地理围栏：以注册坐标为圆心、RadiusM 为半径
type Fence struct {
	Center  Coordinate
	RadiusM float64
}

// Contains 判断上报坐标是否落在围栏内（边界含等号），
// 同时返回计算出的原始距离，供调用方在拒绝时提示「距工地多远」
func (f Fence) Contains(p Coordinate) (bool, float64) {
	d := Distance(p, f.Center)
	return d <= f.RadiusM, d
}
