package skillspace

import "math"

// Component is one non-zero coordinate of a Vector.
type Component struct {
	Index  int
	Weight float64
}

// Vector is a sparse vector with components sorted by index.
type Vector struct {
	comps []Component
}

// NewVector builds a vector from components already sorted by index.
func NewVector(comps ...Component) Vector {
	return Vector{comps: comps}
}

// Components returns the non-zero coordinates.
func (v Vector) Components() []Component { return v.comps }

// IsZero reports whether the vector has no non-zero coordinate.
func (v Vector) IsZero() bool { return len(v.comps) == 0 }

// Norm is the Euclidean length.
func (v Vector) Norm() float64 {
	var sum float64
	for _, c := range v.comps {
		sum += c.Weight * c.Weight
	}
	return math.Sqrt(sum)
}

// Dot is the inner product of two sparse vectors.
func (v Vector) Dot(o Vector) float64 {
	var sum float64
	i, j := 0, 0
	for i < len(v.comps) && j < len(o.comps) {
		switch a, b := v.comps[i], o.comps[j]; {
		case a.Index == b.Index:
			sum += a.Weight * b.Weight
			i++
			j++
		case a.Index < b.Index:
			i++
		default:
			j++
		}
	}
	return sum
}

// Cosine returns the cosine similarity, clamped to [0,1]. A zero vector
// on either side yields 0.
func (v Vector) Cosine(o Vector) float64 {
	nv, no := v.Norm(), o.Norm()
	if nv == 0 || no == 0 {
		return 0
	}
	c := v.Dot(o) / (nv * no)
	return math.Max(0, math.Min(1, c))
}
