package service

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"storefront-core/models"
	"storefront-core/utils"
)

const cardNumberLength = 16

var (
	visaPattern       = regexp.MustCompile(`^4`)
	mastercardPattern = regexp.MustCompile(`^(5[1-5]|2(2[2-9]|[3-6]\d|7[01]|720))`)
	amexPattern       = regexp.MustCompile(`^3[47]`)
	troyPattern       = regexp.MustCompile(`^(9792|65|36|2205|979)`)
)

// DetectBrand guesses the card network from the leading digits
func DetectBrand(number string) string {
	digits := utils.OnlyDigits(number)
	switch {
	case visaPattern.MatchString(digits):
		return models.BrandVisa
	case mastercardPattern.MatchString(digits):
		return models.BrandMastercard
	case amexPattern.MatchString(digits):
		return models.BrandAmex
	case troyPattern.MatchString(digits):
		return models.BrandTroy
	}
	return models.BrandUnknown
}

// LuhnValid runs the mod-10 checksum over a digit string
func LuhnValid(digits string) bool {
	if digits == "" {
		return false
	}
	sum := 0
	double := false
	for i := len(digits) - 1; i >= 0; i-- {
		d := int(digits[i] - '0')
		if d < 0 || d > 9 {
			return false
		}
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		double = !double
	}
	return sum%10 == 0
}

// ParseExpiry reads "MM/YY" and rejects months before the current one
func ParseExpiry(expiry string, now time.Time) (month, year int, err error) {
	digits := utils.OnlyDigits(expiry)
	if len(digits) != 4 {
		return 0, 0, models.NewValidationError("expiry", "expiry must be MM/YY")
	}
	month, _ = strconv.Atoi(digits[:2])
	yy, _ := strconv.Atoi(digits[2:])
	year = 2000 + yy

	if month < 1 || month > 12 {
		return 0, 0, models.NewValidationError("expiry", "expiry month must be between 01 and 12")
	}
	if year < now.Year() || (year == now.Year() && month < int(now.Month())) {
		return 0, 0, models.NewValidationError("expiry", "card has expired")
	}
	return month, year, nil
}

// ValidateNewCard checks a typed-in card and returns the wallet entry for it.
// Only the last four digits survive; the full number and CVV are never returned.
func ValidateNewCard(in models.NewCardInput, now time.Time) (models.WalletCard, error) {
	holder := strings.Join(strings.Fields(in.Holder), " ")
	if holder == "" {
		return models.WalletCard{}, models.NewValidationError("holder", "card holder is required")
	}

	digits := utils.OnlyDigits(in.Number)
	if len(digits) != cardNumberLength {
		return models.WalletCard{}, models.NewValidationError("number", "card number must be 16 digits")
	}
	if !LuhnValid(digits) {
		return models.WalletCard{}, models.NewValidationError("number", "card number is not valid")
	}

	month, year, err := ParseExpiry(in.Expiry, now)
	if err != nil {
		return models.WalletCard{}, err
	}

	brand := DetectBrand(digits)
	cvvLength := 3
	if brand == models.BrandAmex {
		cvvLength = 4
	}
	cvv := strings.TrimSpace(in.CVV)
	if len(cvv) != cvvLength || utils.OnlyDigits(cvv) != cvv {
		return models.WalletCard{}, models.NewValidationError("cvv", fmt.Sprintf("security code must be %d digits", cvvLength))
	}

	return models.WalletCard{
		Brand:  brand,
		Holder: holder,
		Last4:  digits[len(digits)-4:],
		Expiry: fmt.Sprintf("%02d/%02d", month, year%100),
	}, nil
}
