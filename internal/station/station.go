// Package station resolves three-letter station codes to time zones.
package station

import (
	"strings"
	"time"
)

// TimeZone returns the IANA zone name for a station code such as "NYP".
// The lookup is case-insensitive; unknown codes report false.
func TimeZone(code string) (string, bool) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if tz, ok := nonUSZones[code]; ok {
		return tz, true
	}
	tz, ok := usZones[code]
	return tz, ok
}

// Location returns the *time.Location of a station, or UTC when the code is
// unknown or the zone database lacks the zone.
func Location(code string) *time.Location {
	name, ok := TimeZone(code)
	if !ok {
		return time.UTC
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC
	}
	return loc
}
