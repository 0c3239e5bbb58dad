package parser

import (
	"errors"
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/JLORep/ProjectTrench-sub004/internal/models"
)

// ErrUnparseable is the only parse-level failure: the message yielded neither
// a ticker nor a contract address. Partial extraction is not an error.
var ErrUnparseable = errors.New("parser: no ticker or contract address found")

const (
	// Contract addresses are whole alphanumeric tokens within these bounds
	// (the base58 length range of a Solana mint). Out-of-bounds tokens are
	// ignored, never an error.
	minAddressLen = 32
	maxAddressLen = 44
)

var (
	tickerRe = regexp.MustCompile(`\$([A-Za-z]{2,10})\b`)

	entryRe  = regexp.MustCompile(`(?i)\b(?:entry|buy)\b[\s:@=~>-]*\$?(\d[\d,]*(?:\.\d+)?|\.\d+)`)
	targetRe = regexp.MustCompile(`(?i)\b(?:target|tp)\b[\s:@=~>-]*\$?(\d[\d,]*(?:\.\d+)?|\.\d+)`)
	stopRe   = regexp.MustCompile(`(?i)\b(?:stop(?:[\s-]*loss)?|sl)\b[\s:@=~>-]*\$?(\d[\d,]*(?:\.\d+)?|\.\d+)`)
)

// addressLabels tag the token that follows them as the contract address.
var addressLabels = map[string]bool{
	"ca":       true,
	"address":  true,
	"contract": true,
	"token":    true,
	"mint":     true,
}

// Parse builds a new Signal from one raw channel message. The returned signal
// always carries a fresh id, the raw text, and the receipt timestamp; fields
// that could not be confidently extracted stay nil. When the message yields
// neither a ticker nor a contract address, the signal is returned alongside
// ErrUnparseable so the caller can still record it.
func Parse(raw, channel string) (*models.Signal, error) {
	sig := &models.Signal{
		ID:         uuid.NewString(),
		RawMessage: raw,
		Channel:    channel,
		Timestamp:  time.Now().UTC(),
		Status:     models.StatusReceived,
	}

	if ticker := extractTicker(raw); ticker != "" {
		sig.Ticker = &ticker
	}
	if address := extractContractAddress(raw); address != "" {
		sig.ContractAddress = &address
	}
	sig.EntryPrice = extractPrice(raw, entryRe)
	sig.TargetPrice = extractPrice(raw, targetRe)
	sig.StopLoss = extractPrice(raw, stopRe)

	if sig.Ticker == nil && sig.ContractAddress == nil {
		return sig, ErrUnparseable
	}
	return sig, nil
}

// extractTicker returns the first $-prefixed 2-10 letter token, upper-cased.
func extractTicker(raw string) string {
	m := tickerRe.FindStringSubmatch(raw)
	if m == nil {
		return ""
	}
	return strings.ToUpper(m[1])
}

// extractContractAddress scans whole alphanumeric tokens for an in-bounds
// address. A token tagged by a label ("CA", "Address", ...) wins over an
// untagged one; among untagged candidates, a token mixing letters and digits
// wins over a letters-only run so long prose words are not mistaken for mints.
func extractContractAddress(raw string) string {
	tokens := strings.FieldsFunc(raw, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	var labeled, mixed, plain string
	for i, tok := range tokens {
		if len(tok) < minAddressLen || len(tok) > maxAddressLen {
			continue
		}
		if !isAlphanumeric(tok) || !hasLetter(tok) {
			continue
		}
		if labeled == "" && i > 0 && addressLabels[strings.ToLower(tokens[i-1])] {
			labeled = tok
		}
		if mixed == "" && hasLetterAndDigit(tok) {
			mixed = tok
		}
		if plain == "" {
			plain = tok
		}
	}
	if labeled != "" {
		return labeled
	}
	if mixed != "" {
		return mixed
	}
	return plain
}

// extractPrice returns the number anchored to the field's keyword, or nil.
// The first occurrence wins; each price field is bound to its own keyword
// rather than inferred from position.
func extractPrice(raw string, re *regexp.Regexp) *decimal.Decimal {
	m := re.FindStringSubmatch(raw)
	if m == nil {
		return nil
	}
	value, err := decimal.NewFromString(strings.ReplaceAll(m[1], ",", ""))
	if err != nil {
		return nil
	}
	return &value
}

func isAlphanumeric(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
		if r > unicode.MaxASCII {
			return false
		}
	}
	return true
}

func hasLetter(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}

func hasLetterAndDigit(s string) bool {
	var letter, digit bool
	for _, r := range s {
		switch {
		case unicode.IsLetter(r):
			letter = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	return letter && digit
}
