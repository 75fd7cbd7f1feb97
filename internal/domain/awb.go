package domain

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"time"
)

// AWBPrefix is the fixed prefix of every waybill code issued by this system.
const AWBPrefix = "UEX"

const (
	awbRandomSuffixMod = 10000
	awbSerialMin       = 100000000000 // 12-digit serials for batch and checked codes
	awbSerialSpan      = 900000000000
)

// NewAWB returns a waybill code derived from the current time plus a random
// suffix. Codes issued microseconds apart still differ with high probability,
// but uniqueness is not guaranteed: the insert path must treat a
// unique-violation as retryable and mint a fresh code.
func NewAWB() string {
	return fmt.Sprintf("%s%d%04d", AWBPrefix, time.Now().UnixMicro(), rand.Intn(awbRandomSuffixMod))
}

// NewAWBBatch returns exactly n pairwise-distinct waybill codes. Serials are
// random rather than time-derived, because time-based suffixes collapse when
// many codes are minted within the same millisecond. Collisions within the
// batch are resampled.
func NewAWBBatch(n int) []string {
	codes := make([]string, 0, n)
	seen := make(map[int64]bool, n)
	for len(codes) < n {
		serial := awbSerialMin + rand.Int63n(awbSerialSpan)
		if seen[serial] {
			continue
		}
		seen[serial] = true
		codes = append(codes, fmt.Sprintf("%s%d", AWBPrefix, serial))
	}
	return codes
}

// NewCheckedAWB returns a self-verifying waybill code: a random serial with
// its mod-7 checksum digit appended.
func NewCheckedAWB() string {
	serial := awbSerialMin + rand.Int63n(awbSerialSpan)
	return fmt.Sprintf("%s%d%d", AWBPrefix, serial, serial%7)
}

// ValidateCheckedAWB recomputes the checksum of a checked waybill code and
// compares it against the trailing digit.
func ValidateCheckedAWB(code string) bool {
	if !strings.HasPrefix(code, AWBPrefix) {
		return false
	}
	digits := code[len(AWBPrefix):]
	if len(digits) < 2 {
		return false
	}
	serial, err := strconv.ParseInt(digits[:len(digits)-1], 10, 64)
	if err != nil {
		return false
	}
	check, err := strconv.Atoi(digits[len(digits)-1:])
	if err != nil {
		return false
	}
	return int(serial%7) == check
}
