// Package validate holds the client-side field rules shared by the
// registration, apply and profile forms.
package validate

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	PasswordMinLength = 8
	PasswordSymbols   = "!@#$%^&*"
)

var (
	hasUpperReg  = regexp.MustCompile(`[A-Z]`)
	hasLowerReg  = regexp.MustCompile(`[a-z]`)
	hasDigitReg  = regexp.MustCompile(`[0-9]`)
	hasSymbolReg = regexp.MustCompile(`[!@#$%^&*]`)

	nricReg          = regexp.MustCompile(`^[0-9]{12}$`)
	phoneReg         = regexp.MustCompile(`^[0-9]{3}-[0-9]{7,8}$`)
	accountNumberReg = regexp.MustCompile(`^[0-9]{7,16}$`)
)

// IsStrongPassword reports whether p has at least 8 characters and one each
// of lowercase, uppercase, digit and a symbol from !@#$%^&*.
func IsStrongPassword(p string) bool {
	if utf8.RuneCountInString(p) < PasswordMinLength {
		return false
	}

	return hasUpperReg.MatchString(p) &&
		hasLowerReg.MatchString(p) &&
		hasDigitReg.MatchString(p) &&
		hasSymbolReg.MatchString(p)
}

// IsNRIC accepts exactly twelve digits, no separators.
func IsNRIC(nric string) bool {
	return nricReg.MatchString(nric)
}

// NormalizeNRIC drops the dashes of the printed xxxxxx-xx-xxxx form.
func NormalizeNRIC(nric string) string {
	return strings.ReplaceAll(strings.TrimSpace(nric), "-", "")
}

func IsPhone(phone string) bool {
	return phoneReg.MatchString(phone)
}

func IsAccountNumber(n string) bool {
	return accountNumberReg.MatchString(n)
}

// BirthDateFragment returns the YYMMDD prefix of an NRIC.
func BirthDateFragment(nric string) (yy, mm, dd string, err error) {
	if len(nric) < 6 {
		return "", "", "", fmt.Errorf("nric %q is shorter than its date fragment", nric)
	}
	for _, r := range nric[:6] {
		if r < '0' || r > '9' {
			return "", "", "", fmt.Errorf("nric %q date fragment is not numeric", nric)
		}
	}
	return nric[0:2], nric[2:4], nric[4:6], nil
}

// BirthDateCandidates decodes the NRIC date fragment into the dates it can
// stand for, 20th century first. Invalid calendar dates are dropped.
func BirthDateCandidates(nric string) ([]time.Time, error) {
	yy, mm, dd, err := BirthDateFragment(nric)
	if err != nil {
		return nil, err
	}

	out := make([]time.Time, 0, 2)
	for _, century := range []string{"19", "20"} {
		t, err := time.Parse("20060102", century+yy+mm+dd)
		if err != nil {
			continue
		}
		out = append(out, t)
	}

	if len(out) == 0 {
		return nil, fmt.Errorf("nric %q does not encode a calendar date", nric)
	}

	return out, nil
}

// BirthDateMatchesNRIC checks a YYYY-MM-DD date of birth against the YYMMDD
// fragment at the start of the NRIC.
func BirthDateMatchesNRIC(nric, dateOfBirth string) bool {
	dob, err := time.Parse("2006-01-02", strings.TrimSpace(dateOfBirth))
	if err != nil {
		return false
	}

	yy, mm, dd, err := BirthDateFragment(nric)
	if err != nil {
		return false
	}

	return dob.Format("06") == yy && dob.Format("01") == mm && dob.Format("02") == dd
}

func Required(v string) bool {
	return strings.TrimSpace(v) != ""
}
