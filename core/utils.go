package core

import (
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// CleanString trims all leading and trailing whitespace in `s` and optionally lowers it.
func CleanString(s string, lower ...bool) string {
	s = strings.TrimSpace(s)
	if len(lower) > 0 && lower[0] {
		return strings.ToLower(s)
	}
	return s
}

// ParseAmount extracts a signed integer amount from a display string as entered
// in the app, e.g. "1,200,000 so'm", "-$45.50" or "+$100". Everything but
// digits, a leading sign and a decimal point is stripped; the fraction is
// dropped. Unparseable input yields 0.
func ParseAmount(s string) int64 {
	var b strings.Builder
	var signSeen, dotSeen bool
	for _, r := range strings.TrimSpace(s) {
		switch {
		case r >= '0' && r <= '9':
			if dotSeen {
				continue // drop fractional digits
			}
			b.WriteRune(r)
			signSeen = true
		case (r == '-' || r == '+') && !signSeen:
			if r == '-' {
				b.WriteRune(r)
			}
			signSeen = true
		case r == '.' && !dotSeen:
			dotSeen = true
		}
	}
	digits := b.String()
	if digits == "" || digits == "-" {
		return 0
	}
	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0
	}
	return n
}

// DateKey formats t as the calendar-day key used for deduction markers.
func DateKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// Getwd tries to find the project root (the directory containing go.mod).
// go-test changes the working directory to the test package being run during tests... this breaks our code...
// see: https://stackoverflow.com/questions/23847003/golang-tests-and-working-directory
// this is a temporary fix for now :(
func Getwd() string {
	wd, err := os.Getwd()
	if err != nil {
		log.Fatal(err)
	}
	currDir := wd
	for {
		if _, err := os.Stat(filepath.Join(currDir, "go.mod")); err == nil {
			return currDir
		}
		newDir := filepath.Dir(currDir)
		if newDir == string(os.PathSeparator) || newDir == currDir {
			log.Fatal("project root not found")
		}
		currDir = newDir
	}
}
