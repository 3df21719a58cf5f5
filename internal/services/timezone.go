package services

import (
	"strings"
	"time"
)

// DefaultTimezone is the last-resort zone when neither storage nor the
// client session can supply a usable IANA name.
const DefaultTimezone = "America/Sao_Paulo"

// countryFallbackTimezones maps an uppercase ISO country code to a coarse
// default zone. Consulted only when live detection produced nothing and no
// usable zone is stored; it never overrides either.
var countryFallbackTimezones = map[string]string{
	"AR": "America/Argentina/Buenos_Aires",
	"AU": "Australia/Sydney",
	"BR": "America/Sao_Paulo",
	"CA": "America/Toronto",
	"DE": "Europe/Berlin",
	"ES": "Europe/Madrid",
	"FR": "Europe/Paris",
	"GB": "Europe/London",
	"IT": "Europe/Rome",
	"JP": "Asia/Tokyo",
	"MX": "America/Mexico_City",
	"PT": "Europe/Lisbon",
	"US": "America/New_York",
}

type TimezoneResolution struct {
	Effective     string
	Changed       bool
	ShouldPersist bool
	ShouldNotify  bool
}

// ResolveTimezone reconciles the persisted zone with the one detected from
// the live session. A detected zone that does not resolve to a real location
// is treated as absent; the stored value (or the fixed default) then carries
// the session, and Changed stays honest relative to storage.
func ResolveTimezone(stored string, detected string) TimezoneResolution {
	stored = strings.TrimSpace(stored)
	detected = strings.TrimSpace(detected)

	if !IsValidTimezone(detected) {
		detected = ""
	}

	if detected == "" {
		if stored != "" && IsValidTimezone(stored) {
			return TimezoneResolution{Effective: stored}
		}
		return TimezoneResolution{
			Effective:     DefaultTimezone,
			Changed:       stored != "" && stored != DefaultTimezone,
			ShouldPersist: stored != DefaultTimezone,
		}
	}

	if stored == "" {
		return TimezoneResolution{
			Effective:     detected,
			ShouldPersist: true,
		}
	}

	if stored == detected {
		return TimezoneResolution{Effective: stored}
	}

	return TimezoneResolution{
		Effective:     detected,
		Changed:       true,
		ShouldPersist: true,
		ShouldNotify:  true,
	}
}

// ResolveTimezoneWithCountry falls back to the country table when no zone
// could be detected and none is stored. The table never overrides a live
// detection, and a stored zone is always more specific than a country guess.
func ResolveTimezoneWithCountry(stored string, detected string, countryCode string) TimezoneResolution {
	if IsValidTimezone(strings.TrimSpace(detected)) {
		return ResolveTimezone(stored, detected)
	}
	if IsValidTimezone(strings.TrimSpace(stored)) {
		return ResolveTimezone(stored, "")
	}

	fallback, ok := countryFallbackTimezones[strings.ToUpper(strings.TrimSpace(countryCode))]
	if !ok {
		return ResolveTimezone(stored, "")
	}

	resolution := ResolveTimezone(stored, fallback)
	// A country-level guess is too coarse to announce as travel.
	resolution.ShouldNotify = false
	return resolution
}

func IsValidTimezone(name string) bool {
	if strings.TrimSpace(name) == "" {
		return false
	}
	_, err := time.LoadLocation(name)
	return err == nil
}

// LoadLocationOrDefault never fails: an unknown name falls back to the
// default zone, and if even that is unavailable, UTC.
func LoadLocationOrDefault(name string) *time.Location {
	if location, err := time.LoadLocation(strings.TrimSpace(name)); err == nil && strings.TrimSpace(name) != "" {
		return location
	}
	if location, err := time.LoadLocation(DefaultTimezone); err == nil {
		return location
	}
	return time.UTC
}
