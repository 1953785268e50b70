package catalog

import (
	"math"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
)

// Coordinate is a WGS84 latitude/longitude pair in degrees.
type Coordinate struct {
	Lat float64 `json:"lat" yaml:"lat"`
	Lon float64 `json:"lon" yaml:"lon"`
}

// ParseCoordinate parses a "lat, lon" string such as "10.7769, 106.7009".
func ParseCoordinate(s string) (Coordinate, error) {
	parts := strings.Split(strings.TrimSpace(s), ",")
	if len(parts) != 2 {
		return Coordinate{}, eris.Wrapf(ErrMalformedCoordinate, "%q: want \"lat, lon\"", s)
	}

	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return Coordinate{}, eris.Wrapf(ErrMalformedCoordinate, "%q: latitude", s)
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return Coordinate{}, eris.Wrapf(ErrMalformedCoordinate, "%q: longitude", s)
	}

	c := Coordinate{Lat: lat, Lon: lon}
	if err := c.Validate(); err != nil {
		return Coordinate{}, err
	}
	return c, nil
}

// Validate reports whether the coordinate is finite and within WGS84 bounds.
func (c Coordinate) Validate() error {
	if math.IsNaN(c.Lat) || math.IsNaN(c.Lon) || math.IsInf(c.Lat, 0) || math.IsInf(c.Lon, 0) {
		return eris.Wrap(ErrMalformedCoordinate, "not finite")
	}
	if c.Lat < -90 || c.Lat > 90 {
		return eris.Wrapf(ErrMalformedCoordinate, "latitude %v out of range", c.Lat)
	}
	if c.Lon < -180 || c.Lon > 180 {
		return eris.Wrapf(ErrMalformedCoordinate, "longitude %v out of range", c.Lon)
	}
	return nil
}

// Near reports whether o lies strictly within tol degrees of c on both axes
// independently.
func (c Coordinate) Near(o Coordinate, tol float64) bool {
	return math.Abs(c.Lat-o.Lat) < tol && math.Abs(c.Lon-o.Lon) < tol
}

// Point returns the coordinate as an XY go-geom point (x = lon, y = lat).
func (c Coordinate) Point() *geom.Point {
	return geom.NewPointFlat(geom.XY, []float64{c.Lon, c.Lat})
}

// String formats the coordinate the way the store table stores it.
func (c Coordinate) String() string {
	return strconv.FormatFloat(c.Lat, 'f', -1, 64) + ", " + strconv.FormatFloat(c.Lon, 'f', -1, 64)
}
