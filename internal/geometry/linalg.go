package geometry

import "math"

type Vector3 [3]float64

func (v Vector3) Add(o Vector3) Vector3 { return Vector3{v[0] + o[0], v[1] + o[1], v[2] + o[2]} }
func (v Vector3) Sub(o Vector3) Vector3 { return Vector3{v[0] - o[0], v[1] - o[1], v[2] - o[2]} }
func (v Vector3) Scale(f float64) Vector3 {
	return Vector3{v[0] * f, v[1] * f, v[2] * f}
}

func (v Vector3) Dot(o Vector3) float64 { return v[0]*o[0] + v[1]*o[1] + v[2]*o[2] }
func (v Vector3) Norm() float64         { return math.Sqrt(v.Dot(v)) }

// IsFinite reports whether no component is NaN or Inf.
func (v Vector3) IsFinite() bool {
	for _, c := range v {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

type (
	Vector2i [2]int
	Vector3i [3]int
	Vector4i [4]int
)

// Matrix4x4 is row-major; TransformPoint treats it as an affine transform.
type Matrix4x4 [4][4]float64

func Identity() Matrix4x4 {
	return Matrix4x4{{1, 0, 0, 0}, {0, 1, 0, 0}, {0, 0, 1, 0}, {0, 0, 0, 1}}
}

func Translation(t Vector3) Matrix4x4 {
	m := Identity()
	m[0][3], m[1][3], m[2][3] = t[0], t[1], t[2]
	return m
}

func Scaling(s Vector3) Matrix4x4 {
	m := Identity()
	m[0][0], m[1][1], m[2][2] = s[0], s[1], s[2]
	return m
}

// RotationZ rotates by theta radians about the z axis.
func RotationZ(theta float64) Matrix4x4 {
	s, c := math.Sincos(theta)
	m := Identity()
	m[0][0], m[0][1] = c, -s
	m[1][0], m[1][1] = s, c
	return m
}

func (m Matrix4x4) Mul(o Matrix4x4) Matrix4x4 {
	var r Matrix4x4
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			for k := 0; k < 4; k++ {
				r[i][j] += m[i][k] * o[k][j]
			}
		}
	}
	return r
}

func (m Matrix4x4) TransformPoint(v Vector3) Vector3 {
	var r Vector3
	for i := 0; i < 3; i++ {
		r[i] = m[i][0]*v[0] + m[i][1]*v[1] + m[i][2]*v[2] + m[i][3]
	}
	return r
}

func (m Matrix4x4) IsIdentity() bool {
	return m == Identity()
}

// IsAffine reports whether the bottom row is (0, 0, 0, 1) and every entry is finite.
func (m Matrix4x4) IsAffine() bool {
	for _, row := range m {
		for _, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return false
			}
		}
	}
	return m[3] == [4]float64{0, 0, 0, 1}
}
