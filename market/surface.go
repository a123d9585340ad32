package market

import "github.com/quantcore/riskengine/rerrors"

// VolatilitySurface is either a flat vol or a (strike, expiry) grid of
// implied vols with bilinear interpolation and flat extrapolation.
type VolatilitySurface struct {
	flat     bool
	vol      float64
	strikes  []float64
	expiries []float64
	vols     [][]float64 // vols[i][j] at (expiries[i], strikes[j])
}

// NewFlatVolatilitySurface builds a flat-vol surface.
func NewFlatVolatilitySurface(vol float64) VolatilitySurface {
	return VolatilitySurface{flat: true, vol: vol}
}

// NewVolatilitySurface builds a grid surface. vols must be
// len(expiries) x len(strikes).
func NewVolatilitySurface(strikes, expiries []float64, vols [][]float64) (VolatilitySurface, error) {
	if len(strikes) == 0 || len(expiries) == 0 {
		return VolatilitySurface{}, rerrors.New(rerrors.InvalidInput, "empty volatility surface grid")
	}
	if len(vols) != len(expiries) {
		return VolatilitySurface{}, rerrors.Newf(rerrors.DimensionMismatch, "vol grid rows %d != expiries %d", len(vols), len(expiries))
	}
	for i, row := range vols {
		if len(row) != len(strikes) {
			return VolatilitySurface{}, rerrors.Newf(rerrors.DimensionMismatch, "vol grid row %d has %d cols, want %d", i, len(row), len(strikes))
		}
	}
	s := make([]float64, len(strikes))
	e := make([]float64, len(expiries))
	copy(s, strikes)
	copy(e, expiries)
	v := make([][]float64, len(vols))
	for i := range vols {
		v[i] = append([]float64(nil), vols[i]...)
	}
	return VolatilitySurface{strikes: s, expiries: e, vols: v}, nil
}

func bracket(grid []float64, x float64) (lo, hi int, w float64) {
	n := len(grid)
	if x <= grid[0] {
		return 0, 0, 0
	}
	if x >= grid[n-1] {
		return n - 1, n - 1, 0
	}
	for i := 1; i < n; i++ {
		if x <= grid[i] {
			w = (x - grid[i-1]) / (grid[i] - grid[i-1])
			return i - 1, i, w
		}
	}
	return n - 1, n - 1, 0
}

// GetVol returns the implied vol at (strike, expiry), bilinearly
// interpolated, flat-extrapolated on each axis.
func (s VolatilitySurface) GetVol(strike, expiry float64) float64 {
	if s.flat {
		return s.vol
	}
	eLo, eHi, ew := bracket(s.expiries, expiry)
	kLo, kHi, kw := bracket(s.strikes, strike)

	v00 := s.vols[eLo][kLo]
	v01 := s.vols[eLo][kHi]
	v10 := s.vols[eHi][kLo]
	v11 := s.vols[eHi][kHi]

	vLo := v00 + kw*(v01-v00)
	vHi := v10 + kw*(v11-v10)
	return vLo + ew*(vHi-vLo)
}

// ATMVol returns the vol at the given expiry using the surface's median
// strike as a proxy for at-the-money, or the flat vol.
func (s VolatilitySurface) ATMVol(expiry float64) float64 {
	if s.flat {
		return s.vol
	}
	mid := s.strikes[len(s.strikes)/2]
	return s.GetVol(mid, expiry)
}

// Bump shifts every cell (or the flat vol) by delta.
func (s VolatilitySurface) Bump(delta float64) VolatilitySurface {
	if s.flat {
		return NewFlatVolatilitySurface(s.vol + delta)
	}
	v := make([][]float64, len(s.vols))
	for i, row := range s.vols {
		nr := make([]float64, len(row))
		for j, x := range row {
			nr[j] = x + delta
		}
		v[i] = nr
	}
	return VolatilitySurface{strikes: s.strikes, expiries: s.expiries, vols: v}
}
