package noise

import (
	"errors"
	"math"
	"testing"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat"

	"imgdegrade/pkg/raster"
)

// constantImage returns a rows x cols x channels image filled with value
func constantImage(rows, cols, channels int, value float64) *raster.Image {
	return raster.New(rows, cols, channels).Map(func(float64) float64 { return value })
}

// patternImage returns a textured image spanning the full 8-bit range
func patternImage(rows, cols, channels int) *raster.Image {
	img := raster.New(rows, cols, channels)
	for ch := 0; ch < channels; ch++ {
		for r := 0; r < rows; r++ {
			for c := 0; c < cols; c++ {
				v := 0.0
				if (r/2+c/2)%2 == 0 {
					v = 255
				}
				img.Set(ch, r, c, v)
			}
		}
	}
	return img
}

func assertInRange(t *testing.T, name string, img *raster.Image) {
	t.Helper()
	for ch, plane := range img.Data {
		for i, v := range plane {
			if v < 0 || v > 255 || math.IsNaN(v) {
				t.Fatalf("%s: channel %d sample %d = %v outside [0,255]", name, ch, i, v)
			}
		}
	}
}

// TestSensorShotNoiseVariance checks that with no read noise the output
// variance follows the Poisson law: var = gain · mean.
func TestSensorShotNoiseVariance(t *testing.T) {
	tests := []struct {
		gain  float64
		level float64
	}{
		{gain: 2, level: 100},
		{gain: 0.5, level: 40},
		{gain: 4, level: 120},
	}

	for _, tt := range tests {
		for seed := uint64(1); seed <= 3; seed++ {
			img := constantImage(128, 128, 1, tt.level)
			out, err := Sensor{Gain: tt.gain, Sigma: 0, Src: rand.NewSource(seed)}.Apply(img)
			if err != nil {
				t.Fatalf("Apply failed: %v", err)
			}

			mean, variance := stat.MeanVariance(out.Data[0], nil)
			if math.Abs(mean-tt.level) > 0.02*tt.level {
				t.Errorf("gain %v level %v seed %d: mean %v, want ~%v", tt.gain, tt.level, seed, mean, tt.level)
			}
			want := tt.gain * tt.level
			if math.Abs(variance-want) > 0.1*want {
				t.Errorf("gain %v level %v seed %d: variance %v, want ~%v", tt.gain, tt.level, seed, variance, want)
			}
		}
	}
}

func TestSensorReadNoiseAddsVariance(t *testing.T) {
	img := constantImage(128, 128, 1, 100)
	out, err := Sensor{Gain: 1, Sigma: 5, Src: rand.NewSource(7)}.Apply(img)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	_, variance := stat.MeanVariance(out.Data[0], nil)
	want := 100.0 + 25.0
	if math.Abs(variance-want) > 0.1*want {
		t.Errorf("variance %v, want ~%v", variance, want)
	}
}

func TestSensorZeroSignal(t *testing.T) {
	out, err := Sensor{Gain: 1, Sigma: 0, Src: rand.NewSource(1)}.Apply(constantImage(8, 8, 3, 0))
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	for _, plane := range out.Data {
		for _, v := range plane {
			if v != 0 {
				t.Fatalf("Black image with no read noise should stay black, got %v", v)
			}
		}
	}
}

func TestSensorDeterministic(t *testing.T) {
	img := patternImage(16, 16, 3)
	a, err := Sensor{Gain: 1.5, Sigma: 3, Src: rand.NewSource(42)}.Apply(img)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	b, err := Sensor{Gain: 1.5, Sigma: 3, Src: rand.NewSource(42)}.Apply(img)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	for ch := range a.Data {
		for i := range a.Data[ch] {
			if a.Data[ch][i] != b.Data[ch][i] {
				t.Fatalf("Same seed produced different samples at %d/%d", ch, i)
			}
		}
	}
}

func TestGaussian(t *testing.T) {
	img := constantImage(128, 128, 1, 128)
	out, err := Gaussian{Sigma: 10, Src: rand.NewSource(3)}.Apply(img)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	mean, std := stat.MeanStdDev(out.Data[0], nil)
	if math.Abs(mean-128) > 1 {
		t.Errorf("mean %v, want ~128", mean)
	}
	if math.Abs(std-10) > 1 {
		t.Errorf("std %v, want ~10", std)
	}

	same, err := Gaussian{Sigma: 0, Src: rand.NewSource(3)}.Apply(img)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	for i, v := range same.Data[0] {
		if v != 128 {
			t.Fatalf("sigma 0 changed sample %d to %v", i, v)
		}
	}
}

func TestOutputsStayInDisplayRange(t *testing.T) {
	img := patternImage(32, 32, 3)
	synths := map[string]interface {
		Apply(*raster.Image) (*raster.Image, error)
	}{
		"sensor":      Sensor{Gain: 8, Sigma: 40, Src: rand.NewSource(1)},
		"gaussian":    Gaussian{Sigma: 80, Src: rand.NewSource(1)},
		"compression": Compression{Quality: 1},
		"resolution":  Resolution{Factor: 3},
	}

	for name, s := range synths {
		t.Run(name, func(t *testing.T) {
			out, err := s.Apply(img)
			if err != nil {
				t.Fatalf("Apply failed: %v", err)
			}
			if !out.SameShape(img) {
				t.Fatalf("Expected shape %s, got %s", img, out)
			}
			assertInRange(t, name, out)
		})
	}
}

func TestCompressionQuality(t *testing.T) {
	img := raster.New(32, 32, 1)
	for r := 0; r < 32; r++ {
		for c := 0; c < 32; c++ {
			img.Set(0, r, c, float64((r*8+c*3)%256))
		}
	}

	meanAbsDiff := func(q int) float64 {
		out, err := Compression{Quality: q}.Apply(img)
		if err != nil {
			t.Fatalf("quality %d: %v", q, err)
		}
		sum := 0.0
		for i, v := range out.Data[0] {
			sum += math.Abs(v - img.Data[0][i])
		}
		return sum / float64(len(img.Data[0]))
	}

	high := meanAbsDiff(100)
	low := meanAbsDiff(5)
	if high > 2 {
		t.Errorf("quality 100 should be nearly lossless, mean abs diff %v", high)
	}
	if low <= high {
		t.Errorf("quality 5 (%v) should lose more than quality 100 (%v)", low, high)
	}
}

func TestCompressionKeepsColor(t *testing.T) {
	out, err := Compression{Quality: 50}.Apply(patternImage(16, 16, 3))
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if out.Channels != 3 {
		t.Errorf("Expected 3 channels, got %d", out.Channels)
	}
}

func TestResolutionSmoothsDetail(t *testing.T) {
	img := patternImage(32, 32, 1)
	out, err := Resolution{Factor: 4}.Apply(img)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	_, before := stat.MeanVariance(img.Data[0], nil)
	_, after := stat.MeanVariance(out.Data[0], nil)
	if after >= before {
		t.Errorf("Expected downscaling to reduce variance, before %v after %v", before, after)
	}
}

func TestValidation(t *testing.T) {
	img := constantImage(4, 4, 1, 10)
	invalid := map[string]interface {
		Apply(*raster.Image) (*raster.Image, error)
	}{
		"zero gain":        Sensor{Gain: 0, Sigma: 1},
		"negative sigma":   Sensor{Gain: 1, Sigma: -1},
		"NaN gain":         Sensor{Gain: math.NaN()},
		"gaussian sigma":   Gaussian{Sigma: -0.1},
		"quality 0":        Compression{Quality: 0},
		"quality 101":      Compression{Quality: 101},
		"factor below one": Resolution{Factor: 0.5},
	}

	for name, s := range invalid {
		t.Run(name, func(t *testing.T) {
			if _, err := s.Apply(img); !errors.Is(err, ErrInvalidParameter) {
				t.Errorf("Expected ErrInvalidParameter, got %v", err)
			}
		})
	}
}
