// Copyright 2025 The Genie Hub Authors
// SPDX-License-Identifier: Apache-2.0

// Package httputils provides the HTTP plumbing shared by the geocoders.
package httputils

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httputil"
	"regexp"
	"strings"
	"time"
)

// secretParams matches credentials passed as query parameters or headers.
var secretParams = regexp.MustCompile(`(?i)(authorization: ).*|(access_token=|key=)[^&\s]+`)

// Redact hides credentials in a dumped request or response line.
func Redact(s string) string {
	return secretParams.ReplaceAllString(s, "${1}${2}REDACTED")
}

// LoggingRoundTripper dumps each HTTP transaction to Writer with credentials
// redacted. A nil Writer disables tracing.
type LoggingRoundTripper struct {
	Transport http.RoundTripper
	Writer    io.Writer
	DumpBody  bool
}

// prefix and truncate each line of a dump.
func abbreviate(lines []string, prefix rune) []string {
	const maxLines, maxChars = 256, 512

	if len(lines) > maxLines {
		lines = append(lines[:maxLines], "…")
	}

	for i, line := range lines {
		line = Redact(line)
		if len(line) > maxChars {
			line = line[:maxChars] + "…"
		}

		lines[i] = fmt.Sprintf("%c %s", prefix, line)
	}

	return lines
}

func (t *LoggingRoundTripper) write(lines []string) error {
	lines = append(lines, "")
	_, err := fmt.Fprint(t.Writer, strings.Join(lines, "\n"))

	return err
}

// RoundTrip implements the http.RoundTripper interface.
func (t *LoggingRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.Writer == nil {
		return t.Transport.RoundTrip(req)
	}

	dump, err := httputil.DumpRequestOut(req, t.DumpBody)
	if err != nil {
		return nil, fmt.Errorf("tracing HTTP request: %w", err)
	}

	if err := t.write(abbreviate(strings.Split(string(dump), "\n"), '>')); err != nil {
		return nil, fmt.Errorf("tracing HTTP request: %w", err)
	}

	start := time.Now()

	resp, err := t.Transport.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	dump, err = httputil.DumpResponse(resp, t.DumpBody)
	if err != nil {
		return nil, fmt.Errorf("tracing HTTP response: %w", err)
	}

	lines := append([]string{fmt.Sprintf("RESPONSE: [%v]", time.Since(start))}, strings.Split(string(dump), "\n")...)
	if err := t.write(abbreviate(lines, '<')); err != nil {
		return nil, fmt.Errorf("tracing HTTP response: %w", err)
	}

	return resp, nil
}

// AppendRequestHeadersRoundTripper adds headers to every request.
type AppendRequestHeadersRoundTripper struct {
	Transport http.RoundTripper
	Headers   map[string]string
}

// RoundTrip implements the http.RoundTripper interface.
func (t *AppendRequestHeadersRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	for k, v := range t.Headers {
		req.Header.Set(k, v)
	}

	return t.Transport.RoundTrip(req)
}

// ClientOptions configures NewClient.
type ClientOptions struct {
	// Timeout for the whole request, 10s when zero.
	Timeout time.Duration

	// UserAgent sent with every request, if set.
	UserAgent string

	// Trace receives redacted request/response dumps, if set.
	Trace io.Writer

	// TraceBody includes bodies in the dumps.
	TraceBody bool
}

// NewClient builds the http.Client used to talk to geocoding services.
func NewClient(opts ClientOptions) *http.Client {
	timeout := opts.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	var transport http.RoundTripper = &LoggingRoundTripper{
		Transport: http.DefaultTransport,
		Writer:    opts.Trace,
		DumpBody:  opts.TraceBody,
	}

	if opts.UserAgent != "" {
		transport = &AppendRequestHeadersRoundTripper{
			Transport: transport,
			Headers:   map[string]string{"User-Agent": opts.UserAgent},
		}
	}

	return &http.Client{Timeout: timeout, Transport: transport}
}
