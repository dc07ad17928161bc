package config

import (
	"fmt"
	"strings"
	"time"

	iso8601 "github.com/senseyeio/duration"
	"gopkg.in/yaml.v3"
)

var durationReference = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

// Duration accepts Go durations ("30s") and ISO 8601 ones ("PT30S", "P1D")
type Duration time.Duration

func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := ParseDuration(value.Value)
	if err != nil {
		return err
	}

	*d = Duration(parsed)
	return nil
}

func ParseDuration(value string) (time.Duration, error) {
	value = strings.TrimSpace(value)

	if strings.HasPrefix(strings.ToUpper(value), "P") {
		isoDuration, err := iso8601.ParseISO8601(strings.ToUpper(value))
		if err != nil {
			return 0, fmt.Errorf("invalid ISO 8601 duration %q: %w", value, err)
		}

		return isoDuration.Shift(durationReference).Sub(durationReference), nil
	}

	parsed, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q: %w", value, err)
	}

	return parsed, nil
}
