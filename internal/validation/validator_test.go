// Hookbridge - Media Server Webhook Notification Dispatcher
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hookbridge

package validation

import (
	"strings"
	"testing"
)

type testRecord struct {
	URL         string `validate:"required,url"`
	RateLimitMs int    `validate:"gte=0"`
	Level       string `validate:"omitempty,oneof=debug info warn error"`
}

func TestValidateStructPasses(t *testing.T) {
	rec := testRecord{URL: "https://example.test/hook", RateLimitMs: 100}
	if err := ValidateStruct(&rec); err != nil {
		t.Fatalf("ValidateStruct() = %v, want nil", err)
	}
}

func TestValidateStructRequired(t *testing.T) {
	err := ValidateStruct(&testRecord{})
	if err == nil {
		t.Fatal("expected validation error for missing URL")
	}
	if !strings.Contains(err.Error(), "URL is required") {
		t.Errorf("error = %q, want required-field message", err.Error())
	}
}

func TestValidateStructCollectsAllErrors(t *testing.T) {
	err := ValidateStruct(&testRecord{URL: "not a url", RateLimitMs: -5, Level: "loud"})
	if err == nil {
		t.Fatal("expected validation errors")
	}
	if got := len(err.Errors()); got != 3 {
		t.Fatalf("got %d errors, want 3: %v", got, err)
	}

	apiErr := err.ToAPIError()
	if apiErr.Code != "VALIDATION_ERROR" {
		t.Errorf("code = %q, want VALIDATION_ERROR", apiErr.Code)
	}
	if _, ok := apiErr.Details["fields"]; !ok {
		t.Error("multi-error APIError should carry per-field details")
	}
}

func TestValidateStructSingleErrorDetails(t *testing.T) {
	err := ValidateStruct(&testRecord{URL: "https://example.test", RateLimitMs: -1})
	if err == nil {
		t.Fatal("expected validation error")
	}
	apiErr := err.ToAPIError()
	if apiErr.Details["field"] != "RateLimitMs" {
		t.Errorf("field = %v, want RateLimitMs", apiErr.Details["field"])
	}
	if !strings.Contains(apiErr.Message, "greater than or equal to 0") {
		t.Errorf("message = %q, want gte translation", apiErr.Message)
	}
}
