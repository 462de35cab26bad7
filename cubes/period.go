package cubes

import (
	"regexp"
	"strconv"
	"time"
)

// PeriodPattern accepts M01..M36 and Y01..Y03 (case-insensitive prefix).
var PeriodPattern = regexp.MustCompile(`^[Mm](0[1-9]|[12][0-9]|3[0-6])$|^[Yy](0[1-3])$`)

// ParsePeriod splits a period token into its kind ('M' or 'Y') and number.
func ParsePeriod(period string) (kind byte, n int, ok bool) {
	if !PeriodPattern.MatchString(period) {
		return 0, 0, false
	}
	kind = period[0]
	if kind == 'm' {
		kind = 'M'
	}
	if kind == 'y' {
		kind = 'Y'
	}
	n, _ = strconv.Atoi(period[1:])
	return kind, n, true
}

// WindowStart returns the start of the rolling window of the last `months`
// months ending at now.
func WindowStart(now time.Time, months int) time.Time {
	return now.AddDate(0, -months, 0)
}

var comparisonOps = map[string]string{
	"eq":  "$eq",
	"ne":  "$ne",
	"gt":  "$gt",
	"gte": "$gte",
	"lt":  "$lt",
	"lte": "$lte",
}

// MongoOp maps an API comparison operator to its Mongo form.
func MongoOp(op string) (string, bool) {
	m, ok := comparisonOps[op]
	return m, ok
}
