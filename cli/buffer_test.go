package main

import (
	"testing"
)

func TestBufferConvert(t *testing.T) {
	e := newExecutor(t)

	var testCases = []struct {
		name     string
		args     []string
		expected string
	}{
		{"hex to base64", []string{"--from", "hex", "--to", "base64", "0102ff"}, "^AQL/$"},
		{"base64 to hex", []string{"--from", "base64", "--to", "hex", "AQL/"}, "^0102ff$"},
		{"utf8 to hex", []string{"--to", "hex", "abc"}, "^616263$"},
		{"utf8 to base58", []string{"--to", "base58", "hello world"}, "^StV1DL6CwTryKyV$"},
		{"base58 to utf8", []string{"--from", "base58", "--to", "utf8", "StV1DL6CwTryKyV"}, "^hello world$"},
		{"default representation", []string{"--from", "hex", "--to", "binary", "0a0b"}, "^10,11$"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			e.Run(t, append([]string{"mochi-shell", "buffer", "convert"}, tc.args...)...)
			e.checkNextLine(t, tc.expected)
			e.checkEOF(t)
		})
	}

	t.Run("invalid input", func(t *testing.T) {
		e.RunWithError(t, "mochi-shell", "buffer", "convert", "--from", "base64", "A")
	})
	t.Run("no data", func(t *testing.T) {
		e.RunWithError(t, "mochi-shell", "buffer", "convert")
	})
}

func TestBufferEncodings(t *testing.T) {
	e := newExecutor(t)
	e.Run(t, "mochi-shell", "buffer", "encodings")
	e.checkNextLine(t, "^base58$")
	e.checkNextLine(t, "^base64$")
	e.checkNextLine(t, "^hex$")
	e.checkNextLine(t, "^utf8$")
	e.checkEOF(t)
}
