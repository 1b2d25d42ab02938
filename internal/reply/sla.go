package reply

import "time"

// DefaultSLAHours is the response window promised when the caller does not
// specify one.
const DefaultSLAHours = 24

// AddBusinessHours advances t by the given number of business hours. The
// clock moves one hour at a time and an hour only counts when it lands on a
// weekday, so a deadline crossing Friday night resumes counting on Monday.
func AddBusinessHours(t time.Time, hours int) time.Time {
	if hours < 0 {
		hours = 0
	}
	for remaining := hours; remaining > 0; {
		t = t.Add(time.Hour)
		if wd := t.Weekday(); wd != time.Saturday && wd != time.Sunday {
			remaining--
		}
	}
	return t
}

// slaLayouts render the deadline the way each audience expects to read a
// short date-time.
var slaLayouts = map[Language]string{
	LangPT: "02/01/2006 15:04",
	LangEN: "1/2/2006 3:04 PM",
	LangES: "2/1/2006 15:04",
}

// FormatSLA renders the deadline reached by adding the SLA window to now,
// formatted for the given language.
func FormatSLA(now time.Time, hours int, lang Language) string {
	target := AddBusinessHours(now, hours)
	layout, ok := slaLayouts[lang]
	if !ok {
		layout = "2006-01-02 15:04"
	}
	return target.Format(layout)
}
