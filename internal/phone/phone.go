// Package phone converts raw phone input into the canonical digit-only form
// the backend stores, and renders canonical numbers back for display.
package phone

import "strings"

// CountryCode is the only dialing prefix the platform supports.
const CountryCode = "92"

// CanonicalLength is the stored length for any channel-scoped number,
// country code included.
const CanonicalLength = 12

// ChannelWhatsApp numbers are stored and displayed without a "+" prefix.
const ChannelWhatsApp = "whatsapp"

// Normalize turns arbitrary user input into canonical digit-only storage for
// the given channel. It is idempotent: normalizing an already-normalized
// value yields the same value.
//
// With no channel selected the digits pass through untouched and uncapped.
// Every other channel gets the country code enforced and the result capped
// at CanonicalLength digits. WhatsApp additionally collapses a stray local
// zero typed right after the country code ("920..." becomes "92..."); other
// channels deliberately do not.
func Normalize(raw, channel string) string {
	digits := stripNonDigits(raw)

	switch {
	case channel == ChannelWhatsApp:
		v := ensureCountryCode(digits)
		if strings.HasPrefix(v, CountryCode+"0") {
			v = CountryCode + strings.TrimLeft(v[len(CountryCode):], "0")
		}
		return truncate(v)
	case channel != "":
		return truncate(ensureCountryCode(digits))
	default:
		return digits
	}
}

// Display renders a canonical number for the given channel: WhatsApp numbers
// verbatim, other channel numbers with a leading "+", channel-less numbers
// verbatim.
func Display(canonical, channel string) string {
	if canonical == "" {
		return ""
	}
	if channel == "" || channel == ChannelWhatsApp {
		return canonical
	}
	return "+" + canonical
}

func ensureCountryCode(digits string) string {
	if digits == "" {
		return ""
	}
	if strings.HasPrefix(digits, CountryCode) {
		return digits
	}
	return CountryCode + digits
}

func truncate(digits string) string {
	if len(digits) > CanonicalLength {
		return digits[:CanonicalLength]
	}
	return digits
}

func stripNonDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
