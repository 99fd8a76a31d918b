package billing

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"
)

func TestParseWebhookEvent(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{
			"valid created event",
			`{"id":"evt_1","type":"subscription.created","user_id":"7b8a2c6e-1f7c-4a08-9a9e-52a0cb30a0aa","data":{"subscription_id":"sub_9","tier":"PREMIUM","status":"ACTIVE","current_period_end":1756600000}}`,
			false,
		},
		{"not JSON", `tier=premium`, true},
		{"missing type", `{"id":"evt_2","user_id":"abc"}`, true},
		{"missing user", `{"id":"evt_3","type":"subscription.deleted"}`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			evt, err := ParseWebhookEvent([]byte(tt.body))
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && evt.Type == "" {
				t.Error("parsed event has empty type")
			}
		})
	}
}

func TestVerifySignature(t *testing.T) {
	body := []byte(`{"type":"subscription.updated"}`)
	secret := "whsec_test"

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	good := hex.EncodeToString(mac.Sum(nil))

	if !VerifySignature(body, good, secret) {
		t.Error("valid signature rejected")
	}
	if VerifySignature(body, good, "other_secret") {
		t.Error("signature verified with wrong secret")
	}
	if VerifySignature([]byte(`{"type":"tampered"}`), good, secret) {
		t.Error("signature verified for tampered body")
	}
}
