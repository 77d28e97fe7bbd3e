// Package timezone pins the application clock to the zone configured in APP_TIMEZONE.
//
// Audit timestamps (created_at, modified_at) are taken from Now, so every row written by
// the service carries the same zone regardless of the host's local setting.
//
//	now := timezone.Now()
//	local := timezone.ToAppTime(row.CreatedAt)
//
// Only IANA names are accepted ("UTC", "Asia/Jakarta", "Europe/London"); anything else
// falls back to UTC with an error log.
package timezone
