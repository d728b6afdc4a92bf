package motionblur

// Mesh builds the integer spatial-frequency grids for an M x N transform.
//
// U[r][c] is the horizontal frequency index of column c and V[r][c] the
// vertical index of row r. Column indices run 0..N-1; row indices run
// M-1..0 so that row 0 holds the highest vertical frequency. In both axes
// any index above half the dimension wraps to its negative alias
// (index - N or index - M).
func Mesh(M, N int) (U, V [][]int) {
	u := make([]int, N)
	for i := range u {
		u[i] = i
		if float64(i) > float64(N)/2 {
			u[i] -= N
		}
	}

	v := make([]int, M)
	for i := range v {
		v[i] = M - 1 - i
		if float64(v[i]) > float64(M)/2 {
			v[i] -= M
		}
	}

	U = make([][]int, M)
	V = make([][]int, M)
	for r := 0; r < M; r++ {
		U[r] = make([]int, N)
		V[r] = make([]int, N)
		copy(U[r], u)
		for c := 0; c < N; c++ {
			V[r][c] = v[r]
		}
	}
	return U, V
}
