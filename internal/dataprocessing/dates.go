package dataprocessing

import (
	"fmt"
	"strconv"
	"strings"

	apperrors "shillergen/internal/errors"
)

// ParseDate splits a "YYYY.MM" date into year and month. Only the first '.' separates
// the parts. A missing or empty month part gives month 0.
//
// The month part is read as a plain integer, so "1871.1" (October as a spreadsheet
// number) reads as month 1. December is always written "12" and is unaffected.
func ParseDate(raw string) (year, month int, err error) {
	yearPart, monthPart, hasMonth := strings.Cut(strings.TrimSpace(raw), ".")

	year, err = strconv.Atoi(yearPart)
	if err != nil {
		return 0, 0, apperrors.NewParsingError(fmt.Sprintf("malformed date %q: year is not an integer", raw), err).
			WithContext("date", raw)
	}

	if !hasMonth || monthPart == "" {
		return year, 0, nil
	}

	month, err = strconv.Atoi(monthPart)
	if err != nil {
		return 0, 0, apperrors.NewParsingError(fmt.Sprintf("malformed date %q: month is not an integer", raw), err).
			WithContext("date", raw)
	}
	return year, month, nil
}
