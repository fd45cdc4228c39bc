package service

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"medrelease/internal/model"
)

// regNumberPrefix is the fixed first segment of every registration number.
const regNumberPrefix = "ASS"

// ErrSequenceOverflow is returned when a calendar month already holds 9999
// registrations. The 4-digit field is printed on physical paperwork, so
// overflowing it is an operator-visible failure rather than a wider number.
var ErrSequenceOverflow = errors.New("registration sequence exhausted for this month")

// NextRegistrationNumber computes the next ASS/{seq:04d}/{MM}/{YYYY} number
// for the calendar month of now. The sequence is derived by scanning the
// existing requests for the month and taking max+1; numbers are not
// reserved ahead of use. Callers must hold the store lock across the scan
// and the insert or two creators can derive the same number.
func NextRegistrationNumber(now time.Time, requests []model.Request) (string, error) {
	month := now.Format("01")
	year := now.Format("2006")
	suffix := "/" + month + "/" + year

	maxSeq := 0
	for i := range requests {
		reg := requests[i].RegNumber
		if !strings.HasPrefix(reg, regNumberPrefix+"/") || !strings.HasSuffix(reg, suffix) {
			continue
		}
		parts := strings.Split(reg, "/")
		if len(parts) != 4 {
			continue
		}
		seq, err := strconv.Atoi(parts[1])
		if err != nil {
			continue
		}
		if seq > maxSeq {
			maxSeq = seq
		}
	}

	if maxSeq >= 9999 {
		return "", ErrSequenceOverflow
	}
	return fmt.Sprintf("%s/%04d/%s/%s", regNumberPrefix, maxSeq+1, month, year), nil
}

// NextRequestID allocates the next integer request id: 1 + max(existing),
// or 1 for an empty collection. Same lock caveat as the sequence above.
func NextRequestID(requests []model.Request) int {
	maxID := 0
	for i := range requests {
		if requests[i].ID > maxID {
			maxID = requests[i].ID
		}
	}
	return maxID + 1
}
