package motionblur

import (
	"gonum.org/v1/gonum/dsp/fourier"
)

// fft2D computes the M x N discrete Fourier transform of a rows x cols real
// plane (row-major), zero-padded at the bottom and right to M x N.
//
// Rows are transformed with the real FFT and expanded to the full spectrum
// through conjugate symmetry; padded rows are all zero and skipped. Columns
// then go through the complex FFT. Gonum transforms are unnormalized.
func fft2D(plane []float64, rows, cols, M, N int) []complex128 {
	result := make([]complex128, M*N)

	rowFFT := fourier.NewFFT(N)
	rowInput := make([]float64, N)
	rowOutput := make([]complex128, N/2+1)

	for i := 0; i < rows; i++ {
		for j := range rowInput {
			rowInput[j] = 0
		}
		copy(rowInput, plane[i*cols:(i+1)*cols])

		rowFFT.Coefficients(rowOutput, rowInput)

		full := result[i*N : (i+1)*N]
		copy(full, rowOutput)
		// F(N-k) = conj(F(k)) for real input
		for j := len(rowOutput); j < N; j++ {
			k := N - j
			full[j] = complex(real(rowOutput[k]), -imag(rowOutput[k]))
		}
	}

	colFFT := fourier.NewCmplxFFT(M)
	colInput := make([]complex128, M)
	colOutput := make([]complex128, M)
	for j := 0; j < N; j++ {
		for i := 0; i < M; i++ {
			colInput[i] = result[i*N+j]
		}
		colFFT.Coefficients(colOutput, colInput)
		for i := 0; i < M; i++ {
			result[i*N+j] = colOutput[i]
		}
	}

	return result
}

// ifft2D inverts an M x N spectrum in place, including the 1/(M·N) scale
func ifft2D(spectrum []complex128, M, N int) {
	rowFFT := fourier.NewCmplxFFT(N)
	rowBuf := make([]complex128, N)
	for i := 0; i < M; i++ {
		row := spectrum[i*N : (i+1)*N]
		rowFFT.Sequence(rowBuf, row)
		copy(row, rowBuf)
	}

	colFFT := fourier.NewCmplxFFT(M)
	colInput := make([]complex128, M)
	colOutput := make([]complex128, M)
	for j := 0; j < N; j++ {
		for i := 0; i < M; i++ {
			colInput[i] = spectrum[i*N+j]
		}
		colFFT.Sequence(colOutput, colInput)
		for i := 0; i < M; i++ {
			spectrum[i*N+j] = colOutput[i]
		}
	}

	scale := complex(1/float64(M*N), 0)
	for i := range spectrum {
		spectrum[i] *= scale
	}
}
