package market

import "time"

// DateFormat is the ISO day format used as History map key.
const DateFormat = "2006-01-02"

// businessDayWalk is how many weekdays the reference-date walk
// collects. One trading year is roughly 245 business days, so 300
// leaves comfortable headroom for the one-year anchor.
const businessDayWalk = 300

// tokyo is the exchange timezone. A fixed offset avoids depending on
// the host tzdata; JST has no daylight saving.
var tokyo = time.FixedZone("JST", 9*60*60)

// ReferenceDates are the five anchor dates used to sample historical
// prices: storage order is strictly descending (Target newest).
type ReferenceDates struct {
	Target   time.Time
	Prev     time.Time // 1 business day back
	Week     time.Time // 5 business days back
	TwoWeeks time.Time // 10 business days back
	Year     time.Time // ~1 trading year back
}

// TargetDate applies the 15:30 JST cutoff: before the close the
// previous calendar day is evaluated, after it the current day. The
// returned date may land on a weekend; the business-day walk in
// NewReferenceDates absorbs that.
func TargetDate(now time.Time) time.Time {
	t := now.In(tokyo)
	if t.Hour() < 15 || (t.Hour() == 15 && t.Minute() < 30) {
		t = t.AddDate(0, 0, -1)
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// NewReferenceDates walks calendar days backward from target,
// skipping Saturdays and Sundays, until 300 weekdays are collected.
// The anchors are positions 0, 1, 5, 10 and 299 of that sequence.
func NewReferenceDates(target time.Time) ReferenceDates {
	days := make([]time.Time, 0, businessDayWalk)
	cur := time.Date(target.Year(), target.Month(), target.Day(), 0, 0, 0, 0, time.UTC)
	for len(days) < businessDayWalk {
		if wd := cur.Weekday(); wd != time.Saturday && wd != time.Sunday {
			days = append(days, cur)
		}
		cur = cur.AddDate(0, 0, -1)
	}
	return ReferenceDates{
		Target:   days[0],
		Prev:     days[1],
		Week:     days[5],
		TwoWeeks: days[10],
		Year:     days[businessDayWalk-1],
	}
}
