package email

import (
	"strings"
	"testing"
	"time"
)

func TestVerifyEmailMessage(t *testing.T) {
	msg, err := VerifyEmailMessage("jane@x.com", "Jane", "https://shop.example/verify-email?token=abc")
	if err != nil {
		t.Fatalf("VerifyEmailMessage() error = %v", err)
	}
	if msg.To != "jane@x.com" {
		t.Errorf("To = %q, want jane@x.com", msg.To)
	}
	if !strings.Contains(msg.HTML, "Hello Jane") {
		t.Error("greeting missing from body")
	}
	if !strings.Contains(msg.HTML, "https://shop.example/verify-email?token=abc") {
		t.Error("verification link missing from body")
	}
}

func TestMfaCodeMessageEmbedsOTP(t *testing.T) {
	msg, err := MfaCodeMessage("jane@x.com", "Jane", "482913")
	if err != nil {
		t.Fatalf("MfaCodeMessage() error = %v", err)
	}
	if !strings.Contains(msg.HTML, "482913") {
		t.Error("otp missing from body")
	}
}

func TestLoginAlertMessageEmbedsContext(t *testing.T) {
	at := time.Date(2026, 8, 28, 14, 30, 0, 0, time.UTC)
	msg, err := LoginAlertMessage("jane@x.com", "Jane", "Firefox on Linux", "Unknown", at)
	if err != nil {
		t.Fatalf("LoginAlertMessage() error = %v", err)
	}
	for _, want := range []string{"Firefox on Linux", "Unknown", "2026-08-28 14:30"} {
		if !strings.Contains(msg.HTML, want) {
			t.Errorf("body missing %q", want)
		}
	}
}

func TestTemplatesEscapeUserInput(t *testing.T) {
	msg, err := VerifyEmailMessage("jane@x.com", "<script>alert(1)</script>", "https://shop.example/verify")
	if err != nil {
		t.Fatalf("VerifyEmailMessage() error = %v", err)
	}
	if strings.Contains(msg.HTML, "<script>") {
		t.Error("user-supplied name rendered unescaped")
	}
}
