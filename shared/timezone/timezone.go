package timezone

import (
	"tasklist/config"
	"time"

	"github.com/rs/zerolog/log"
)

const defaultZone = "UTC"

var (
	appLocation *time.Location
)

func init() {
	Load(config.Get().App.Timezone)
}

// Load switches the application timezone. An empty or unknown name selects UTC.
func Load(name string) *time.Location {
	if name == "" {
		log.Warn().Msg("No timezone configured, using UTC as default")
		name = defaultZone
	}

	loc, err := time.LoadLocation(name)
	if err != nil {
		log.Error().
			Err(err).
			Str("timezone", name).
			Msg("Failed to load timezone, falling back to UTC")

		appLocation = time.UTC

		return appLocation
	}

	appLocation = loc
	log.Debug().
		Str("timezone", name).
		Str("location", loc.String()).
		Msg("Application timezone initialized")

	return appLocation
}

// Now returns the current time in the application timezone
func Now() time.Time {
	return time.Now().In(GetLocation())
}

// ToAppTime converts a time to the application timezone
func ToAppTime(t time.Time) time.Time {
	return t.In(GetLocation())
}

func GetLocation() *time.Location {
	if appLocation == nil {
		return time.UTC
	}

	return appLocation
}

// Parse parses a time string in the application timezone
func Parse(layout, value string) (time.Time, error) {
	return time.ParseInLocation(layout, value, GetLocation())
}

// Format formats a time in the application timezone
func Format(t time.Time, layout string) string {
	return ToAppTime(t).Format(layout)
}
