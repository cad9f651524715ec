// Copyright 2017-26 the original author or authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package model

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"
)

const (
	// EarthRadiusMeters is the mean radius of the earth.
	EarthRadiusMeters = 6_371_008.8

	ftoaPrecision = 6
)

// Degrees is the decimal degree representation of a longitude or latitude.
// A Degrees value that is NaN denotes a coordinate that was absent or could
// not be parsed.
type Degrees float64

// Angle represents a 1D angle in radians.
type Angle s1.Angle

// Epsilon is an enumeration of precisions that can be used when comparing Degrees.
type Epsilon float64

// Degrees units.
const (
	Degree           Degrees = 1
	radiansPerPi             = 180
	Radian                   = (radiansPerPi / math.Pi) * Degree
	MinutesPerDegree         = 60
	SecondsPerDegree         = 3600

	E5 Epsilon = 1e-5
	E6 Epsilon = 1e-6
	E7 Epsilon = 1e-7
	E8 Epsilon = 1e-8
	E9 Epsilon = 1e-9

	Half = 0.5
)

// Missing is the Degrees value used for absent or malformed coordinates.
var Missing = Degrees(math.NaN())

// Angle returns the equivalent s1.Angle.
func (d Degrees) Angle() Angle { return Angle(float64(d) * float64(s1.Degree)) }

// IsValid reports whether d is a finite number.
func (d Degrees) IsValid() bool {
	return !math.IsNaN(float64(d)) && !math.IsInf(float64(d), 0)
}

// Decimal formats d as plain decimal degrees, e.g. "-0.13".
func (d Degrees) Decimal() string {
	return ftoa(float64(d))
}

func (d Degrees) String() string {
	if !d.IsValid() {
		return "invalid"
	}

	var sign string
	if d < 0 {
		sign = "-"
	}

	val := math.Abs(float64(d))
	degrees := int(math.Floor(val))
	minutes := int(math.Floor(MinutesPerDegree * (val - float64(degrees))))
	seconds := SecondsPerDegree * (val - float64(degrees) - (float64(minutes) / MinutesPerDegree))

	return fmt.Sprintf("%s%d° %d' %s\"", sign, degrees, minutes, ftoa(seconds))
}

// EqualWithin checks if two degrees are within a specific epsilon.
func (d Degrees) EqualWithin(o Degrees, eps Epsilon) bool {
	return round(float64(d)/float64(eps))-round(float64(o)/float64(eps)) == 0
}

// EqualWithin checks if two angles are within a specific epsilon.
func (d Angle) EqualWithin(o Angle, eps Epsilon) bool {
	return round(float64(d)/float64(eps))-round(float64(o)/float64(eps)) == 0
}

// round returns the value rounded to nearest as an int64.
func round(val float64) int64 {
	if val < 0 {
		return int64(val - Half)
	}

	return int64(val + Half)
}

// ParseDegrees converts a string to a Degrees instance.  Values that parse
// but are not finite, such as "NaN", are rejected.
func ParseDegrees(s string) (Degrees, error) {
	u, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return Missing, err
	}

	d := Degrees(u)
	if !d.IsValid() {
		return Missing, fmt.Errorf("%w: %q", ErrInvalidCoordinate, s)
	}

	return d, nil
}

// Coord is a latitude/longitude pair.
type Coord struct {
	Lat Degrees `json:"lat"`
	Lon Degrees `json:"lon"`
}

// Valid reports whether both components of the coordinate are usable.
func (c Coord) Valid() bool {
	return c.Lat.IsValid() && c.Lon.IsValid()
}

// Equal compares coordinates exactly, as parsed.  A missing component is
// never equal to anything, including another missing component.
func (c Coord) Equal(o Coord) bool {
	return c.Lat == o.Lat && c.Lon == o.Lon
}

// LatLng returns the equivalent s2.LatLng.
func (c Coord) LatLng() s2.LatLng {
	return s2.LatLngFromDegrees(float64(c.Lat), float64(c.Lon))
}

// DistanceTo returns the great circle distance to o in meters.
func (c Coord) DistanceTo(o Coord) float64 {
	return c.LatLng().Distance(o.LatLng()).Radians() * EarthRadiusMeters
}

func (c Coord) String() string {
	return fmt.Sprintf("(%s, %s)", ftoa(float64(c.Lat)), ftoa(float64(c.Lon)))
}

// ftoa formats f with at most six decimals and no trailing zeros.
func ftoa(f float64) string {
	s := strconv.FormatFloat(f, 'f', ftoaPrecision, 64)
	if strings.ContainsRune(s, '.') {
		s = strings.TrimRight(strings.TrimRight(s, "0"), ".")
	}

	return s
}
