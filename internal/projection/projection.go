// Package projection converts projected dataset coordinates to geographic
// longitude/latitude. It carries a small registry of the CRS definitions the
// scored parcel datasets actually use rather than a full EPSG database.
package projection

import (
	"math"

	"github.com/rotisserie/eris"
)

// ErrUnknownCRS is returned when no definition exists for an EPSG code.
var ErrUnknownCRS = eris.New("projection: unknown CRS")

// US survey foot in meters.
const usSurveyFoot = 1200.0 / 3937.0

// GRS80 ellipsoid.
const (
	grs80A = 6378137.0
	grs80F = 1.0 / 298.257222101
)

// CRS converts between projected coordinates (in the CRS's native unit)
// and geographic longitude/latitude in degrees.
type CRS interface {
	// Inverse converts projected x/y to lon/lat degrees.
	Inverse(x, y float64) (lon, lat float64)
	// Forward converts lon/lat degrees to projected x/y.
	Forward(lon, lat float64) (x, y float64)
}

// registry holds the CRS definitions known to the loader. Parcel exports
// around here are NJ State Plane or UTM 18N; anything else must be added
// explicitly.
var registry = map[int]CRS{
	4326: geographic{},
	// NAD83 / New Jersey (ftUS).
	3424: &TransverseMercator{
		LatOrigin:     38.0 + 50.0/60.0,
		LonOrigin:     -74.5,
		Scale:         0.9999,
		FalseEasting:  492125.0,
		FalseNorthing: 0,
		UnitToMeter:   usSurveyFoot,
	},
	// NAD83 / UTM zone 18N.
	26918: &TransverseMercator{
		LatOrigin:     0,
		LonOrigin:     -75,
		Scale:         0.9996,
		FalseEasting:  500000,
		FalseNorthing: 0,
		UnitToMeter:   1,
	},
}

// Lookup returns the CRS for an EPSG code.
func Lookup(epsg int) (CRS, error) {
	crs, ok := registry[epsg]
	if !ok {
		return nil, eris.Wrapf(ErrUnknownCRS, "EPSG:%d", epsg)
	}
	return crs, nil
}

// geographic is the EPSG:4326 passthrough.
type geographic struct{}

func (geographic) Inverse(x, y float64) (float64, float64) { return x, y }
func (geographic) Forward(lon, lat float64) (float64, float64) {
	return lon, lat
}

// TransverseMercator implements the ellipsoidal Transverse Mercator
// projection (Snyder 1987, eqs. 8-9..8-25) on GRS80. Angles in the
// parameters are degrees; FalseEasting/FalseNorthing are in the CRS's
// native unit, converted through UnitToMeter.
type TransverseMercator struct {
	LatOrigin     float64
	LonOrigin     float64
	Scale         float64
	FalseEasting  float64
	FalseNorthing float64
	UnitToMeter   float64
}

func (t *TransverseMercator) Forward(lon, lat float64) (float64, float64) {
	a := grs80A
	e2 := grs80F * (2 - grs80F)
	ep2 := e2 / (1 - e2)
	k0 := t.Scale

	phi := lat * math.Pi / 180
	lam := lon * math.Pi / 180
	lam0 := t.LonOrigin * math.Pi / 180
	phi0 := t.LatOrigin * math.Pi / 180

	sinPhi := math.Sin(phi)
	cosPhi := math.Cos(phi)
	n := a / math.Sqrt(1-e2*sinPhi*sinPhi)
	tt := math.Tan(phi) * math.Tan(phi)
	c := ep2 * cosPhi * cosPhi
	aa := (lam - lam0) * cosPhi

	m := meridionalArc(a, e2, phi)
	m0 := meridionalArc(a, e2, phi0)

	x := k0 * n * (aa +
		(1-tt+c)*aa*aa*aa/6 +
		(5-18*tt+tt*tt+72*c-58*ep2)*math.Pow(aa, 5)/120)
	y := k0 * (m - m0 + n*math.Tan(phi)*(aa*aa/2+
		(5-tt+9*c+4*c*c)*math.Pow(aa, 4)/24+
		(61-58*tt+tt*tt+600*c-330*ep2)*math.Pow(aa, 6)/720))

	return x/t.UnitToMeter + t.FalseEasting, y/t.UnitToMeter + t.FalseNorthing
}

func (t *TransverseMercator) Inverse(x, y float64) (float64, float64) {
	a := grs80A
	e2 := grs80F * (2 - grs80F)
	ep2 := e2 / (1 - e2)
	k0 := t.Scale

	xm := (x - t.FalseEasting) * t.UnitToMeter
	ym := (y - t.FalseNorthing) * t.UnitToMeter
	lam0 := t.LonOrigin * math.Pi / 180
	phi0 := t.LatOrigin * math.Pi / 180

	m := meridionalArc(a, e2, phi0) + ym/k0
	mu := m / (a * (1 - e2/4 - 3*e2*e2/64 - 5*e2*e2*e2/256))

	e1 := (1 - math.Sqrt(1-e2)) / (1 + math.Sqrt(1-e2))
	phi1 := mu +
		(3*e1/2-27*math.Pow(e1, 3)/32)*math.Sin(2*mu) +
		(21*e1*e1/16-55*math.Pow(e1, 4)/32)*math.Sin(4*mu) +
		(151*math.Pow(e1, 3)/96)*math.Sin(6*mu) +
		(1097*math.Pow(e1, 4)/512)*math.Sin(8*mu)

	sinPhi1 := math.Sin(phi1)
	cosPhi1 := math.Cos(phi1)
	c1 := ep2 * cosPhi1 * cosPhi1
	t1 := math.Tan(phi1) * math.Tan(phi1)
	n1 := a / math.Sqrt(1-e2*sinPhi1*sinPhi1)
	r1 := a * (1 - e2) / math.Pow(1-e2*sinPhi1*sinPhi1, 1.5)
	d := xm / (n1 * k0)

	phi := phi1 - (n1*math.Tan(phi1)/r1)*(d*d/2-
		(5+3*t1+10*c1-4*c1*c1-9*ep2)*math.Pow(d, 4)/24 +
		(61+90*t1+298*c1+45*t1*t1-252*ep2-3*c1*c1)*math.Pow(d, 6)/720)
	lam := lam0 + (d-
		(1+2*t1+c1)*math.Pow(d, 3)/6+
		(5-2*c1+28*t1-3*c1*c1+8*ep2+24*t1*t1)*math.Pow(d, 5)/120)/cosPhi1

	return lam * 180 / math.Pi, phi * 180 / math.Pi
}

// meridionalArc is the distance along the meridian from the equator to
// latitude phi (Snyder eq. 3-21).
func meridionalArc(a, e2, phi float64) float64 {
	e4 := e2 * e2
	e6 := e4 * e2
	return a * ((1-e2/4-3*e4/64-5*e6/256)*phi -
		(3*e2/8+3*e4/32+45*e6/1024)*math.Sin(2*phi) +
		(15*e4/256+45*e6/1024)*math.Sin(4*phi) -
		(35*e6/3072)*math.Sin(6*phi))
}
