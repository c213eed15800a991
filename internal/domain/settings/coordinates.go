package settings

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var ErrInvalidCoordinates = errors.New("invalid_coordinates")

var (
	decimalPair = regexp.MustCompile(`(-?\d+(?:\.\d+)?)\s*[, ]\s*(-?\d+(?:\.\d+)?)`)
	dmsParts    = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?[^NSEW]*[NSEW])`)
	dmsPart     = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\D+(\d+(?:\.\d+)?)?\D*(\d+(?:\.\d+)?)?\D*([NSEW])`)
)

type Coordinates struct {
	Lat float64
	Lng float64
}

// String is the 6-decimal "lat, lng" form.
func (c Coordinates) String() string {
	return fmt.Sprintf("%.6f, %.6f", c.Lat, c.Lng)
}

// MapsURL is the embeddable Google Maps URL for the point.
func (c Coordinates) MapsURL() string {
	return fmt.Sprintf("https://www.google.com/maps?q=%s,%s&z=13&output=embed", formatFloat(c.Lat), formatFloat(c.Lng))
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// ParseCoordinates accepts a decimal pair ("18.08, -15.97") or two DMS
// values ("18°05'12\"N 15°58'36\"W"). The decimal form is tried first.
func ParseCoordinates(input string) (Coordinates, error) {
	text := strings.TrimSpace(input)

	if m := decimalPair.FindStringSubmatch(text); m != nil {
		lat, err1 := strconv.ParseFloat(m[1], 64)
		lng, err2 := strconv.ParseFloat(m[2], 64)
		if err1 == nil && err2 == nil {
			return Coordinates{Lat: lat, Lng: lng}, nil
		}
	}

	if parts := dmsParts.FindAllString(text, -1); len(parts) >= 2 {
		lat, ok1 := parseDMS(parts[0])
		lng, ok2 := parseDMS(parts[1])
		if ok1 && ok2 {
			return Coordinates{Lat: lat, Lng: lng}, nil
		}
	}
	return Coordinates{}, ErrInvalidCoordinates
}

func parseDMS(value string) (float64, bool) {
	m := dmsPart.FindStringSubmatch(strings.TrimSpace(value))
	if m == nil {
		return 0, false
	}
	var parts [3]float64
	for i := range parts {
		if m[i+1] == "" {
			continue
		}
		f, err := strconv.ParseFloat(m[i+1], 64)
		if err != nil {
			return 0, false
		}
		parts[i] = f
	}
	decimal := parts[0] + parts[1]/60 + parts[2]/3600
	switch strings.ToUpper(m[4]) {
	case "S", "W":
		decimal = -decimal
	}
	return decimal, true
}
