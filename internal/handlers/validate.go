// Copyright (c) 2025 Vlah Software House. All rights reserved.

package handlers

import (
	"net/mail"
	"strings"
	"unicode/utf8"
)

// Validation limits for user-supplied fields.
const (
	maxNameLen    = 255
	maxEmailLen   = 255
	maxTitleLen   = 255
	maxContentLen = 100_000
	maxCommentLen = 5_000
	maxSubjectLen = 255
	maxMessageLen = 10_000
)

// errorBag collects validation failures per field.
type errorBag map[string][]string

func (e errorBag) add(field, message string) {
	e[field] = append(e[field], message)
}

func (e errorBag) empty() bool {
	return len(e) == 0
}

// requireString checks presence and length of a required text field.
func (e errorBag) requireString(field, value string, maxLen int) {
	if strings.TrimSpace(value) == "" {
		e.add(field, "The "+field+" field is required.")
		return
	}
	if utf8.RuneCountInString(value) > maxLen {
		e.add(field, "The "+field+" field is too long.")
	}
}

// requireEmail checks presence and shape of a required email field.
func (e errorBag) requireEmail(field, value string) {
	if strings.TrimSpace(value) == "" {
		e.add(field, "The "+field+" field is required.")
		return
	}
	if utf8.RuneCountInString(value) > maxEmailLen {
		e.add(field, "The "+field+" field is too long.")
		return
	}
	if _, err := mail.ParseAddress(value); err != nil {
		e.add(field, "The "+field+" field must be a valid email address.")
	}
}

// requireOneOf checks that value is one of the allowed choices.
func (e errorBag) requireOneOf(field, value string, allowed ...string) {
	for _, a := range allowed {
		if value == a {
			return
		}
	}
	e.add(field, "The selected "+field+" is invalid.")
}
