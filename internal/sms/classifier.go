// Package sms turns raw bank notification texts into transactions.
//
// Parsing is deterministic pattern matching over a known vocabulary of
// Indian bank and UPI message formats.
package sms

import "regexp"

var transactionWord = regexp.MustCompile(`(?i)\b(?:debited|credited|sent|paid)\b`)

// IsTransactionMessage reports whether body mentions a money movement.
func IsTransactionMessage(body string) bool {
	return transactionWord.MatchString(body)
}
