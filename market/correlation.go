package market

import (
	"math"
	"sort"

	"github.com/quantcore/riskengine/rerrors"
	"gonum.org/v1/gonum/mat"
)

const choleskyTolerance = 1e-12

// CorrelationMatrix stores a symmetric positive semi-definite n x n
// correlation matrix over an ordered ticker list, and caches its
// Cholesky factor, which is computed at construction.
type CorrelationMatrix struct {
	tickers []string
	index   map[string]int
	sigma   *mat.SymDense

	factor *mat.Dense // cached lower-triangular L; nil until computed
}

// NewCorrelationMatrix builds a correlation matrix over tickers with the
// given rho (must be n x n, symmetric, unit diagonal, entries in
// [-1, 1]). tickers are stored in the order given, indexed by a map
// keyed on ticker for order-independent membership and lookup; callers
// needing a stable sorted order should use OrderedTickers. The supplied
// rho indexing must match the supplied tickers order.
func NewCorrelationMatrix(tickers []string, rho [][]float64) (*CorrelationMatrix, error) {
	n := len(tickers)
	if n == 0 {
		return nil, rerrors.New(rerrors.InvalidInput, "empty ticker list for correlation matrix")
	}
	if len(rho) != n {
		return nil, rerrors.Newf(rerrors.DimensionMismatch, "correlation matrix has %d rows, want %d", len(rho), n)
	}
	for i, row := range rho {
		if len(row) != n {
			return nil, rerrors.Newf(rerrors.DimensionMismatch, "correlation matrix row %d has %d cols, want %d", i, len(row), n)
		}
	}
	for i := 0; i < n; i++ {
		if math.Abs(rho[i][i]-1) > 1e-9 {
			return nil, rerrors.Newf(rerrors.InvalidInput, "correlation matrix diagonal[%d] = %f, want 1", i, rho[i][i])
		}
		for j := 0; j < n; j++ {
			if rho[i][j] < -1 || rho[i][j] > 1 {
				return nil, rerrors.Newf(rerrors.InvalidInput, "correlation[%d][%d] = %f out of [-1,1]", i, j, rho[i][j])
			}
			if math.Abs(rho[i][j]-rho[j][i]) > 1e-9 {
				return nil, rerrors.Newf(rerrors.InvalidInput, "correlation matrix not symmetric at [%d][%d]", i, j)
			}
		}
	}

	sigma := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			sigma.SetSym(i, j, rho[i][j])
		}
	}

	index := make(map[string]int, n)
	tc := make([]string, n)
	copy(tc, tickers)
	for i, t := range tc {
		index[t] = i
	}

	cm := &CorrelationMatrix{tickers: tc, index: index, sigma: sigma}
	if _, err := cm.choleskyFactor(); err != nil {
		return nil, err
	}
	return cm, nil
}

// Tickers returns the ordered ticker list this matrix indexes.
func (c *CorrelationMatrix) Tickers() []string {
	out := make([]string, len(c.tickers))
	copy(out, c.tickers)
	return out
}

// Covers reports whether tickers has exactly as many entries as this
// matrix has tickers and every one of them is indexed by it
// (order-independent); a strict subset is not covered.
func (c *CorrelationMatrix) Covers(tickers []string) bool {
	if len(tickers) != len(c.tickers) {
		return false
	}
	for _, t := range tickers {
		if _, ok := c.index[t]; !ok {
			return false
		}
	}
	return true
}

// choleskyFactor computes (and caches) the lower-triangular L such that
// L*L^T = Sigma, using the standard Cholesky recurrence. It fails with
// NonPositiveDefinite if any diagonal radicand is non-positive within
// tolerance.
func (c *CorrelationMatrix) choleskyFactor() (*mat.Dense, error) {
	if c.factor != nil {
		return c.factor, nil
	}
	n := c.sigma.SymmetricDim()
	l := mat.NewDense(n, n, nil)

	for j := 0; j < n; j++ {
		sum := 0.0
		for k := 0; k < j; k++ {
			v := l.At(j, k)
			sum += v * v
		}
		radicand := c.sigma.At(j, j) - sum
		if radicand <= choleskyTolerance {
			return nil, rerrors.Newf(rerrors.NonPositiveDefinite, "correlation matrix is not positive definite at diagonal %d (radicand %g)", j, radicand)
		}
		ljj := math.Sqrt(radicand)
		l.Set(j, j, ljj)

		for i := j + 1; i < n; i++ {
			sum := 0.0
			for k := 0; k < j; k++ {
				sum += l.At(i, k) * l.At(j, k)
			}
			l.Set(i, j, (c.sigma.At(i, j)-sum)/ljj)
		}
	}

	c.factor = l
	return l, nil
}

// Factor returns the lower-triangular Cholesky factor cached at
// construction.
func (c *CorrelationMatrix) Factor() (*mat.Dense, error) {
	return c.choleskyFactor()
}

// Correlate transforms independent standard normals z into shocks with
// covariance Sigma, via L*z.
func (c *CorrelationMatrix) Correlate(z []float64) ([]float64, error) {
	n := len(c.tickers)
	if len(z) != n {
		return nil, rerrors.Newf(rerrors.DimensionMismatch, "shock vector has %d entries, want %d", len(z), n)
	}
	l, err := c.choleskyFactor()
	if err != nil {
		return nil, err
	}
	zv := mat.NewVecDense(n, z)
	var out mat.VecDense
	out.MulVec(l, zv)

	result := make([]float64, n)
	for i := 0; i < n; i++ {
		result[i] = out.AtVec(i)
	}
	return result, nil
}

// OrderedTickers returns a stably sorted (ascending) copy of tickers,
// used by the multi-asset simulator to form a deterministic ticker
// order for a given set of stock tickers.
func OrderedTickers(tickers []string) []string {
	out := append([]string(nil), tickers...)
	sort.Strings(out)
	return out
}
