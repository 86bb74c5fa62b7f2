package utils

import "time"

// ISTTZ is the fleet's operating timezone. Devices submit wall-clock
// times in IST.
var ISTTZ = time.FixedZone("IST", int(5*time.Hour.Seconds()+30*time.Minute.Seconds()))

func ISTNow() time.Time {
	return time.Now().In(ISTTZ)
}
