package schedule

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// hoursFile is the YAML shape of an opening-hours override:
//
//	timezone: Europe/Riga
//	hours:
//	  monday: {start: 11, end: 23}
//	  sunday: {start: 12, end: 22}
type hoursFile struct {
	Timezone string            `yaml:"timezone"`
	Hours    map[string]Window `yaml:"hours"`
}

var weekdays = map[string]time.Weekday{
	"sunday": time.Sunday, "sun": time.Sunday,
	"monday": time.Monday, "mon": time.Monday,
	"tuesday": time.Tuesday, "tue": time.Tuesday,
	"wednesday": time.Wednesday, "wed": time.Wednesday,
	"thursday": time.Thursday, "thu": time.Thursday,
	"friday": time.Friday, "fri": time.Friday,
	"saturday": time.Saturday, "sat": time.Saturday,
}

// ParseHours decodes a YAML hours table.  The returned location is nil when
// the document does not name a timezone.
func ParseHours(data []byte) (Hours, *time.Location, error) {
	var f hoursFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, nil, fmt.Errorf("parse hours: %w", err)
	}
	if len(f.Hours) == 0 {
		return nil, nil, fmt.Errorf("parse hours: no days configured")
	}
	hours := make(Hours, len(f.Hours))
	for name, w := range f.Hours {
		day, ok := weekdays[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			return nil, nil, fmt.Errorf("parse hours: unknown day %q", name)
		}
		hours[day] = w
	}
	if err := hours.Validate(); err != nil {
		return nil, nil, fmt.Errorf("parse hours: %w", err)
	}
	var loc *time.Location
	if tz := strings.TrimSpace(f.Timezone); tz != "" {
		l, err := time.LoadLocation(tz)
		if err != nil {
			return nil, nil, fmt.Errorf("parse hours: timezone %q: %w", tz, err)
		}
		loc = l
	}
	return hours, loc, nil
}

// LoadHoursFile reads ParseHours input from path.
func LoadHoursFile(path string) (Hours, *time.Location, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read hours file: %w", err)
	}
	return ParseHours(data)
}
