package geo

import (
	"math"
	"testing"
)

// ── 坐标校验 ──

func TestNewCoordinate_Valid(t *testing.T) {
	c, err := NewCoordinate(30.2672, -97.7431)
	if err != nil {
		t.Fatalf("合法坐标不应报错: %v", err)
	}
	if c.Latitude != 30.2672 || c.Longitude != -97.7431 {
		t.Errorf("坐标值与入参不一致: %+v", c)
	}
}

func TestNewCoordinate_Boundary(t *testing.T) {
	cases := [][2]float64{{90, 180}, {-90, -180}, {0, 0}}
	for _, pair := range cases {
		if _, err := NewCoordinate(pair[0], pair[1]); err != nil {
			t.Errorf("边界坐标 (%v, %v) 应合法: %v", pair[0], pair[1], err)
		}
	}
}

func TestNewCoordinate_Invalid(t *testing.T) {
	cases := [][2]float64{{90.0001, 0}, {-91, 0}, {0, 180.5}, {0, -200}}
	for _, pair := range cases {
		if _, err := NewCoordinate(pair[0], pair[1]); err == nil {
			t.Errorf("非法坐标 (%v, %v) 应报错", pair[0], pair[1])
		}
	}
}

// ── haversine 距离 ──

func TestDistance_SamePointIsZero(t *testing.T) {
	points := []Coordinate{
		{Latitude: 0, Longitude: 0},
		{Latitude: 30.2672, Longitude: -97.7431},
		{Latitude: -89.9, Longitude: 179.9},
	}
	for _, p := range points {
		if d := Distance(p, p); d != 0 {
			t.Errorf("Distance(%+v, 同点) 期望 0，实际=%v", p, d)
		}
	}
}

func TestDistance_Symmetric(t *testing.T) {
	a := Coordinate{Latitude: 30.2672, Longitude: -97.7431}
	b := Coordinate{Latitude: 31.0, Longitude: -96.5}

	ab := Distance(a, b)
	ba := Distance(b, a)
	if math.Abs(ab-ba) > 1e-9 {
		t.Errorf("距离应对称: Distance(a,b)=%v, Distance(b,a)=%v", ab, ba)
	}
}

func TestDistance_KnownValue(t *testing.T) {
	// 赤道上经度差 1° ≈ 111.19 公里
	a := Coordinate{Latitude: 0, Longitude: 0}
	b := Coordinate{Latitude: 0, Longitude: 1}

	d := Distance(a, b)
	expected := 111194.9
	if math.Abs(d-expected) > 10 {
		t.Errorf("赤道 1° 经度距离期望约 %v 米，实际=%v", expected, d)
	}
}

func TestDistance_NonNegative(t *testing.T) {
	a := Coordinate{Latitude: 12.34, Longitude: 56.78}
	b := Coordinate{Latitude: -12.34, Longitude: -56.78}
	if d := Distance(a, b); d < 0 {
		t.Errorf("距离不应为负: %v", d)
	}
}

// ── 地理围栏 ──

func TestFence_ContainsCenter(t *testing.T) {
	center := Coordinate{Latitude: 30.2672, Longitude: -97.7431}
	f := Fence{Center: center, RadiusM: 100}

	ok, d := f.Contains(center)
	if !ok {
		t.Error("圆心本身应在围栏内")
	}
	if d != 0 {
		t.Errorf("圆心距离期望 0，实际=%v", d)
	}
}

func TestFence_BoundaryInclusive(t *testing.T) {
	center := Coordinate{Latitude: 30.2672, Longitude: -97.7431}
	// 纬度偏移约 100 米的点
	p := Coordinate{Latitude: 30.2672 + 100.0/111194.9, Longitude: -97.7431}
	d := Distance(p, center)

	// 半径恰好等于实际距离 → 边界含等号，应通过
	f := Fence{Center: center, RadiusM: d}
	if ok, _ := f.Contains(p); !ok {
		t.Errorf("距离恰好等于半径 %v 时应在围栏内", d)
	}

	// 半径略小于实际距离 → 应拒绝
	f = Fence{Center: center, RadiusM: d - 0.01}
	if ok, _ := f.Contains(p); ok {
		t.Error("距离超过半径时应在围栏外")
	}
}

func TestFence_FarPointRejected(t *testing.T) {
	center := Coordinate{Latitude: 30.2672, Longitude: -97.7431}
	// 纬度偏移约 500 米
	p := Coordinate{Latitude: 30.2672 + 500.0/111194.9, Longitude: -97.7431}

	f := Fence{Center: center, RadiusM: 100}
	ok, d := f.Contains(p)
	if ok {
		t.Error("500 米外的点不应通过 100 米围栏")
	}
	if math.Abs(d-500) > 5 {
		t.Errorf("上报距离期望约 500 米，实际=%v", d)
	}
}
