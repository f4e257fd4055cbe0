// Command generate-golden writes the golden files of the mandelbrot tests.
// It evaluates every case on an independent math/big model of the
// fixed-point format: a sign and a magnitude scaled by 2^(32n−4), truncated
// after each product and wrapped at 2^(32n) like the limb arithmetic.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"math"
	"math/big"
	"os"
	"path/filepath"
)

// IterateGolden is one entry of iterate_golden.json.
type IterateGolden struct {
	Cr        string `json:"cr"`
	Ci        string `json:"ci"`
	MaxIter   int    `json:"maxIter"`
	Precision int    `json:"precision"`
	Want      int    `json:"want"`
}

type tileGolden struct {
	CenterRe  string    `json:"centerRe"`
	CenterIm  string    `json:"centerIm"`
	Scale     string    `json:"scale"`
	Size      int       `json:"size"`
	MaxIter   int       `json:"maxIter"`
	Precision int       `json:"precision"`
	Values    []float64 `json:"values"`
}

type orbitGolden struct {
	Cr         string    `json:"cr"`
	Ci         string    `json:"ci"`
	MaxIter    int       `json:"maxIter"`
	Precision  int       `json:"precision"`
	Steps      int       `json:"steps"`
	EscapeIter int       `json:"escapeIter"`
	Re         []float64 `json:"re"`
	Im         []float64 `json:"im"`
	Z2Re       []float64 `json:"z2re"`
	Z2Im       []float64 `json:"z2im"`
}

type engineGolden struct {
	Tiles  []tileGolden  `json:"tiles"`
	Orbits []orbitGolden `json:"orbits"`
}

var iteratePoints = []struct {
	cr, ci  string
	maxIter int
}{
	{"0", "0", 200},
	{"2", "0", 10},
	{"-2", "0", 50},
	{"0.5", "0.5", 100},
	{"-0.75", "0.1", 500},
	{"0.3", "0.5", 1000},
	{"-1.25", "0.02", 1000},
	{"-0.1", "0.651", 1000},
	{"0.25", "0", 300},
	{"0.26", "0", 1000},
	{"-0.7435669", "0.1314023", 2000},
	{"0.285", "0.01", 2000},
	{"-1.5", "0", 300},
	{"-0.16", "1.0405", 1000},
	{"1", "1", 10},
}

var iteratePrecisions = []int{2, 4, 20}

var tileCases = []tileGolden{
	{CenterRe: "-0.5", CenterIm: "0", Scale: "3", Size: 8, MaxIter: 100, Precision: 2},
	{CenterRe: "-0.75", CenterIm: "0.1", Scale: "0.01", Size: 4, MaxIter: 300, Precision: 20},
}

var orbitCases = []orbitGolden{
	{Cr: "-0.75", Ci: "0.1", MaxIter: 12, Precision: 4},
	{Cr: "0.5", Ci: "0.5", MaxIter: 40, Precision: 3},
	{Cr: "-1", Ci: "0", MaxIter: 8, Precision: 2},
}

func main() {
	outputDir := flag.String("out", "internal/mandelbrot/testdata", "Output directory for the golden files")
	flag.Parse()

	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating output directory: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Generating golden data...")

	var iterations []IterateGolden
	for _, p := range iteratePoints {
		for _, n := range iteratePrecisions {
			iterations = append(iterations, IterateGolden{
				Cr: p.cr, Ci: p.ci, MaxIter: p.maxIter, Precision: n,
				Want: iterate(parse(p.cr, n), parse(p.ci, n), p.maxIter),
			})
		}
	}

	engine := engineGolden{}
	for _, tc := range tileCases {
		tc.Values = tile(tc)
		engine.Tiles = append(engine.Tiles, tc)
	}
	for _, oc := range orbitCases {
		engine.Orbits = append(engine.Orbits, orbit(oc))
	}

	for name, doc := range map[string]any{
		"iterate_golden.json": iterations,
		"engine_golden.json":  engine,
	} {
		filename := filepath.Join(*outputDir, name)
		if err := writeJSON(filename, doc); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing %s: %v\n", filename, err)
			os.Exit(1)
		}
		fmt.Printf("Successfully generated golden file at %s\n", filename)
	}
}

func writeJSON(filename string, doc any) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(doc); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// ─────────────────────────────────────────────────────────────────────────────
// Fixed-point model
// ─────────────────────────────────────────────────────────────────────────────

// fixed is sign·mag·2^−(32n−4). mag is reduced modulo 2^(32n).
type fixed struct {
	n   int
	neg bool
	mag *big.Int
}

func fracBits(n int) uint { return uint(32*n - 4) }

func (x fixed) wrap() fixed {
	mod := new(big.Int).Lsh(big.NewInt(1), uint(32*x.n))
	x.mag.Mod(x.mag, mod)
	if x.mag.Sign() == 0 {
		x.neg = false
	}
	return x
}

func fromFloat64(d float64, n int) fixed {
	f := new(big.Float).SetFloat64(math.Abs(d))
	f.SetMantExp(f, int(fracBits(n)))
	mag, _ := f.Int(nil)
	return fixed{n: n, neg: d < 0, mag: mag}.wrap()
}

// parse accumulates decimal digits in a double, then truncates, as the
// engine's lenient parser does.
func parse(s string, n int) fixed {
	i := 0
	for i < len(s) && s[i] == ' ' {
		i++
	}
	neg := false
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		neg = s[i] == '-'
		i++
	}
	var whole, frac float64
	for ; i < len(s) && s[i] >= '0' && s[i] <= '9'; i++ {
		whole = whole*10 + float64(s[i]-'0')
	}
	if i < len(s) && s[i] == '.' {
		i++
		scale := 0.1
		for ; i < len(s) && s[i] >= '0' && s[i] <= '9'; i++ {
			frac += float64(s[i]-'0') * scale
			scale *= 0.1
		}
	}
	x := fromFloat64(whole+frac, n)
	x.neg = neg && x.mag.Sign() != 0
	return x
}

func mul(x, y fixed) fixed {
	p := new(big.Int).Mul(x.mag, y.mag)
	p.Rsh(p, fracBits(x.n))
	return fixed{n: x.n, neg: x.neg != y.neg, mag: p}.wrap()
}

func add(x, y fixed) fixed {
	if x.neg == y.neg {
		return fixed{n: x.n, neg: x.neg, mag: new(big.Int).Add(x.mag, y.mag)}.wrap()
	}
	switch x.mag.Cmp(y.mag) {
	case 0:
		return fixed{n: x.n, mag: new(big.Int)}
	case 1:
		return fixed{n: x.n, neg: x.neg, mag: new(big.Int).Sub(x.mag, y.mag)}
	default:
		return fixed{n: x.n, neg: y.neg, mag: new(big.Int).Sub(y.mag, x.mag)}
	}
}

func sub(x, y fixed) fixed {
	y.neg = !y.neg && y.mag.Sign() != 0
	return add(x, y)
}

func double(x fixed) fixed {
	return fixed{n: x.n, neg: x.neg, mag: new(big.Int).Lsh(x.mag, 1)}.wrap()
}

// float64 sums the 32-bit limbs from the top down, matching the engine's
// downconversion bit for bit.
func (x fixed) float64() float64 {
	if x.mag.Sign() == 0 {
		return 0
	}
	limb := func(i int) uint32 {
		return uint32(new(big.Int).Rsh(x.mag, uint(32*i)).Uint64())
	}
	top := limb(x.n - 1)
	v := float64(top>>28) + float64(top&(1<<28-1))/(1<<28)
	exp := -28
	for i := x.n - 2; i >= 0; i-- {
		exp -= 32
		if exp < -1074-32 {
			break
		}
		if l := limb(i); l != 0 {
			v += math.Ldexp(float64(l), exp)
		}
	}
	if x.neg {
		v = -v
	}
	return v
}

// ─────────────────────────────────────────────────────────────────────────────
// Mandelbrot on the model
// ─────────────────────────────────────────────────────────────────────────────

func zero(n int) fixed { return fixed{n: n, mag: new(big.Int)} }

func step(zr, zi, cr, ci fixed) (fixed, fixed) {
	re := add(sub(mul(zr, zr), mul(zi, zi)), cr)
	im := add(double(mul(zr, zi)), ci)
	return re, im
}

func escaped(zr, zi fixed) bool {
	r, i := zr.float64(), zi.float64()
	return r*r+i*i > 4
}

func escapeTime(zr, zi, cr, ci fixed, maxIter int) (int, fixed, fixed) {
	for i := 0; i < maxIter; i++ {
		if escaped(zr, zi) {
			return i, zr, zi
		}
		zr, zi = step(zr, zi, cr, ci)
	}
	return maxIter, zr, zi
}

func iterate(cr, ci fixed, maxIter int) int {
	n, _, _ := escapeTime(zero(cr.n), zero(cr.n), cr, ci, maxIter)
	return n
}

func tile(tc tileGolden) []float64 {
	n := tc.Precision
	centerRe, centerIm, scale := parse(tc.CenterRe, n), parse(tc.CenterIm, n), parse(tc.Scale, n)
	size := float64(tc.Size)
	values := make([]float64, 0, tc.Size*tc.Size)
	for py := 0; py < tc.Size; py++ {
		ci := add(centerIm, mul(fromFloat64((float64(py)-size*0.5)/size, n), scale))
		for px := 0; px < tc.Size; px++ {
			cr := add(centerRe, mul(fromFloat64((float64(px)-size*0.5)/size, n), scale))
			iter, zr, zi := escapeTime(zero(n), zero(n), cr, ci, tc.MaxIter)
			v := float32(tc.MaxIter)
			if iter < tc.MaxIter {
				r, i := zr.float64(), zi.float64()
				v = float32(smooth(iter, r*r+i*i))
			}
			values = append(values, float64(v))
		}
	}
	return values
}

func smooth(iter int, magSq float64) float64 {
	logZn := 0.5 * math.Log(magSq)
	nu := math.Log(logZn/math.Ln2) / math.Ln2
	return float64(iter) + 1 - nu
}

func orbit(oc orbitGolden) orbitGolden {
	n := oc.Precision
	cr, ci := parse(oc.Cr, n), parse(oc.Ci, n)
	zr, zi := zero(n), zero(n)
	oc.Re, oc.Im, oc.Z2Re, oc.Z2Im = []float64{0}, []float64{0}, []float64{0}, []float64{0}
	oc.Steps, oc.EscapeIter = oc.MaxIter, -1
	for i := 0; i < oc.MaxIter; i++ {
		z2r, z2i := mul(zr, zr), mul(zi, zi)
		zr, zi = step(zr, zi, cr, ci)
		re, im := zr.float64(), zi.float64()
		oc.Z2Re = append(oc.Z2Re, z2r.float64()-z2i.float64())
		oc.Z2Im = append(oc.Z2Im, 2*oc.Re[i]*oc.Im[i])
		oc.Re, oc.Im = append(oc.Re, re), append(oc.Im, im)
		if re*re+im*im > 1e16 {
			oc.Steps, oc.EscapeIter = i+1, i+1
			break
		}
	}
	return oc
}
