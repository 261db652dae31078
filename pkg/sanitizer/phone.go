package sanitizer

import (
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// nationalRegions are tried in order for numbers written without a country
// code. Rentals are only offered in these markets.
var nationalRegions = []string{"US", "CA"}

// NormalizePhone returns the number in E.164 form, or "" when it is not a
// valid number. Numbers starting with + or 00 are parsed as international;
// anything else is read as a national number of a supported market.
func NormalizePhone(phone string) string {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return ""
	}

	if rest, ok := strings.CutPrefix(phone, "00"); ok {
		phone = "+" + rest
	}
	if strings.HasPrefix(phone, "+") {
		return formatValid(phone, "")
	}

	for _, region := range nationalRegions {
		if e164 := formatValid(phone, region); e164 != "" {
			return e164
		}
	}
	return ""
}

// SMSCapable reports whether the number is one an SMS gateway can deliver to.
// Landlines and unknown line types are excluded.
func SMSCapable(e164 string) bool {
	num, err := phonenumbers.Parse(e164, "")
	if err != nil || !phonenumbers.IsValidNumber(num) {
		return false
	}
	switch phonenumbers.GetNumberType(num) {
	case phonenumbers.MOBILE, phonenumbers.FIXED_LINE_OR_MOBILE:
		return true
	default:
		return false
	}
}

func formatValid(phone, region string) string {
	num, err := phonenumbers.Parse(phone, region)
	if err != nil || !phonenumbers.IsValidNumber(num) {
		return ""
	}
	return phonenumbers.Format(num, phonenumbers.E164)
}
