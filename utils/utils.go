package utils

import (
	rndm "math/rand"
	"net/mail"
	"net/url"
	"regexp"
	"slices"
	"time"

	"github.com/google/uuid"
)

func GetUUID() string {
	return uuid.New().String()
}

// --- Random String Generators ---

var upperRunes = []rune("ABCDEFGHIJKLMNOPQRSTUVWXYZ")

// GenerateRandomUpperString creates a random uppercase-letter string of length n.
func GenerateRandomUpperString(n int) string {
	b := make([]rune, n)
	for i := range b {
		b[i] = upperRunes[rndm.Intn(len(upperRunes))]
	}
	return string(b)
}

// --- Trip ticker ---

var TickerPattern = regexp.MustCompile(`^\d{6}-[A-Z]{4}$`)

// GenerateTicker builds a trip ticker: date prefix YYMMDD, a dash, and
// four random uppercase letters.
func GenerateTicker(now time.Time) string {
	return now.Format("060102") + "-" + GenerateRandomUpperString(4)
}

// --- Validation helpers ---

func IsValidEmail(s string) bool {
	_, err := mail.ParseAddress(s)
	return err == nil
}

func IsValidURL(s string) bool {
	u, err := url.Parse(s)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// --- Slice Helpers ---

func Contains(slice []string, value string) bool {
	return slices.Contains(slice, value)
}
