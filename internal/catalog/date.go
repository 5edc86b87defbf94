package catalog

import (
	"fmt"
	"regexp"
	"time"
)

// ReleaseDate is a release date with the precision Spotify reported it at.
type ReleaseDate struct {
	Date  time.Time
	Year  bool
	Month bool
	Day   bool
}

var (
	yearRE  = regexp.MustCompile(`^\d{4}$`)
	monthRE = regexp.MustCompile(`^\d{4}-\d{2}$`)
	dayRE   = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
)

// Precision is "year", "month" or "day", matching Spotify's
// release_date_precision values. The zero ReleaseDate has no precision.
func (d ReleaseDate) Precision() string {
	switch {
	case d.Day:
		return "day"
	case d.Month:
		return "month"
	case d.Year:
		return "year"
	}
	return ""
}

// ParseReleaseDate parses release dates of the form 'yyyy', 'yyyy-mm' or
// 'yyyy-mm-dd'.
func ParseReleaseDate(ds string) (date ReleaseDate, err error) {
	switch {
	case yearRE.MatchString(ds):
		date.Date, err = time.Parse("2006", ds)
		if err != nil {
			err = fmt.Errorf("parsing release date as year: %w", err)
			return
		}
		date.Year = true

	case monthRE.MatchString(ds):
		date.Date, err = time.Parse("2006-01", ds)
		if err != nil {
			err = fmt.Errorf("parsing release date as month: %w", err)
			return
		}
		date.Month = true

	case dayRE.MatchString(ds):
		date.Date, err = time.Parse("2006-01-02", ds)
		if err != nil {
			err = fmt.Errorf("parsing release date as day: %w", err)
			return
		}
		date.Day = true

	default:
		err = fmt.Errorf("invalid release date format: %q", ds)
	}
	return
}
