package motionblur

import (
	"math"
	"math/cmplx"
)

// OTF is the optical transfer function of a blur: one complex gain per
// discrete frequency of a Rows x Cols transform, stored row-major.
type OTF struct {
	Rows int
	Cols int
	Data []complex128
}

// At returns the response at row r, column c
func (h OTF) At(r, c int) complex128 {
	return h.Data[r*h.Cols+c]
}

// sinc is the normalized sinc, sin(πx)/(πx) with sinc(0) = 1
func sinc(x float64) float64 {
	if x == 0 {
		return 1
	}
	px := math.Pi * x
	return math.Sin(px) / px
}

// phasor returns exp(-jπx)
func phasor(x float64) complex128 {
	return cmplx.Exp(complex(0, -math.Pi*x))
}

// BuildOTF evaluates the motion-blur response of path on an M x N mesh.
//
// For a Single path with coefficients (a, b) and s = U·a + V·b:
//
//	H = T · sinc(s) · exp(-jπs)
//
// For a Dual path each segment covers half of the exposure and the second
// term carries the phase of the first segment's displacement:
//
//	H = T/2 · sinc(s1) · exp(-jπ s1)
//	  + T/2 · sinc(s2) · exp(-jπ(2(U(a1-a2) + V(b1-b2)) + 3 s2))
func BuildOTF(M, N int, path Path) OTF {
	U, V := Mesh(M, N)
	T := path.Exposure()
	coeffs := path.Coefficients()

	h := OTF{Rows: M, Cols: N, Data: make([]complex128, M*N)}

	switch path.(type) {
	case Single:
		a, b := coeffs[0].A, coeffs[0].B
		for r := 0; r < M; r++ {
			for c := 0; c < N; c++ {
				u, v := float64(U[r][c]), float64(V[r][c])
				s := u*a + v*b
				h.Data[r*N+c] = complex(T*sinc(s), 0) * phasor(s)
			}
		}

	case Dual:
		a1, b1 := coeffs[0].A, coeffs[0].B
		a2, b2 := coeffs[1].A, coeffs[1].B
		for r := 0; r < M; r++ {
			for c := 0; c < N; c++ {
				u, v := float64(U[r][c]), float64(V[r][c])
				s1 := u*a1 + v*b1
				s2 := u*a2 + v*b2
				first := complex(T/2*sinc(s1), 0) * phasor(s1)
				second := complex(T/2*sinc(s2), 0) * phasor(2*(u*(a1-a2)+v*(b1-b2))+3*s2)
				h.Data[r*N+c] = first + second
			}
		}
	}

	return h
}
