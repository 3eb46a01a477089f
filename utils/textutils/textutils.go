// Copyright 2025 The Genie Hub Authors
// SPDX-License-Identifier: Apache-2.0

// Package textutils holds the string normalization shared by matching,
// cache keys and CLI output.
package textutils

import (
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Fold removes accents, lowercases and trims s, so that "Québec " and
// "quebec" compare equal.
func Fold(s string) string {
	s, _, _ = transform.String(
		transform.Chain(
			norm.NFD,
			runes.Remove(runes.In(unicode.Mn)),
			norm.NFC,
		),
		strings.TrimSpace(strings.ToLower(s)),
	)

	return s
}

// NormalizeKey folds s and collapses inner whitespace runs into one space.
func NormalizeKey(s string) string {
	return strings.Join(strings.Fields(Fold(s)), " ")
}

// ContainsFold reports whether needle occurs in haystack once both are folded.
// An empty needle always matches.
func ContainsFold(haystack, needle string) bool {
	needle = Fold(needle)
	if needle == "" {
		return true
	}

	return strings.Contains(Fold(haystack), needle)
}

// AnyToStringSlice converts a scanned list value into []string.
func AnyToStringSlice(v any) ([]string, bool) {
	switch list := v.(type) {
	case nil:
		return nil, true
	case []string:
		return list, true
	case []any:
		s := make([]string, 0, len(list))

		for _, e := range list {
			val, ok := e.(string)
			if !ok {
				return nil, false
			}

			s = append(s, val)
		}

		return s, true
	default:
		return nil, false
	}
}

// FormatInt formats an integer with thousands separators.
func FormatInt(n int64) string {
	digits := strconv.FormatInt(n, 10)

	sign := ""
	if n < 0 {
		sign, digits = "-", digits[1:]
	}

	var sb strings.Builder

	head := len(digits) % 3
	if head == 0 {
		head = 3
	}

	sb.WriteString(digits[:head])

	for i := head; i < len(digits); i += 3 {
		sb.WriteByte(',')
		sb.WriteString(digits[i : i+3])
	}

	return sign + sb.String()
}
