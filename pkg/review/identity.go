package review

import (
	"crypto/md5"
	"encoding/hex"
	"time"
)

// Identify derives the calendar day stamp and the stable review
// identifier for a run. The instant is normalized to midday local time
// before taking the UTC date, so runs near midnight don't flip between
// adjacent days depending on the zone offset.
//
// The identifier is a pure function of (day, type): it never includes
// item content, so re-running against a changed store still upserts the
// same note.
func Identify(now time.Time, t Type) (dayStamp, id string) {
	noon := time.Date(now.Year(), now.Month(), now.Day(), 12, 0, 0, 0, now.Location())
	dayStamp = noon.UTC().Format("2006-01-02")

	sum := md5.Sum([]byte(dayStamp + ":" + string(t)))
	return dayStamp, hex.EncodeToString(sum[:])
}
