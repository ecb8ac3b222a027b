package api

import (
	"encoding/json"
	"testing"
)

func TestNormalizePayload(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		expected string
	}{
		{"wrapped object", `{"success":true,"message":"ok","data":{"id":1}}`, `{"id":1}`},
		{"wrapped array", `{"data":[1,2,3]}`, `[1,2,3]`},
		{"wrapped null", `{"success":true,"data":null}`, `null`},
		{"bare object", `{"id":1,"name":"wool"}`, `{"id":1,"name":"wool"}`},
		{"bare array", `[{"id":1}]`, `[{"id":1}]`},
		{"bare string", `"ok"`, `"ok"`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := normalizePayload([]byte(tc.body))
			if string(got) != tc.expected {
				t.Errorf("normalizePayload(%s) = %s, want %s", tc.body, got, tc.expected)
			}
		})
	}
}

func TestDecodePayload_BothShapes(t *testing.T) {
	type product struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	}

	for _, body := range []string{
		`{"id":7,"name":"alpaca"}`,
		`{"success":true,"message":"ok","data":{"id":7,"name":"alpaca"}}`,
	} {
		var p product
		if err := decodePayload([]byte(body), &p); err != nil {
			t.Fatalf("decodePayload(%s) error: %v", body, err)
		}
		if p.ID != 7 || p.Name != "alpaca" {
			t.Errorf("decodePayload(%s) = %+v, want id=7 name=alpaca", body, p)
		}
	}
}

func TestDecodePayload_NullLeavesTargetUntouched(t *testing.T) {
	out := []int{1, 2}
	if err := decodePayload([]byte(`{"success":true,"data":null}`), &out); err != nil {
		t.Fatalf("decodePayload error: %v", err)
	}
	if len(out) != 2 {
		t.Errorf("null payload mutated target: %v", out)
	}
}

func TestServerMessage(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		expected string
	}{
		{"message key", `{"success":false,"message":"Out of stock"}`, "Out of stock"},
		{"error key", `{"error":"boom"}`, "boom"},
		{"message preferred", `{"message":"first","error":"second"}`, "first"},
		{"no keys", `{"status":500}`, ""},
		{"not json", `<html>gateway error</html>`, ""},
		{"non-string message", `{"message":{"nested":true}}`, ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := serverMessage([]byte(tc.body)); got != tc.expected {
				t.Errorf("serverMessage(%s) = %q, want %q", tc.body, got, tc.expected)
			}
		})
	}
}

func TestRouteLabel(t *testing.T) {
	tests := []struct {
		path     string
		expected string
	}{
		{"/products", "/products"},
		{"/products/42", "/products/:id"},
		{"/inventory/available/7", "/inventory/available/:id"},
		{"/inventory/restock/9?quantity=5", "/inventory/restock/:id"},
		{"/admin/applications/12/approve", "/admin/applications/:id/approve"},
	}

	for _, tc := range tests {
		if got := routeLabel(tc.path); got != tc.expected {
			t.Errorf("routeLabel(%q) = %q, want %q", tc.path, got, tc.expected)
		}
	}
}

func TestErrorFormatting(t *testing.T) {
	err := &Error{StatusCode: 403, Message: "Admin privileges required"}
	if err.Error() != "Admin privileges required (status 403)" {
		t.Errorf("Error() = %q", err.Error())
	}
	if !IsForbidden(err) {
		t.Error("IsForbidden should match status 403")
	}
	if IsUnauthorized(err) {
		t.Error("IsUnauthorized should not match status 403")
	}
	if got := ServerMessage(err, "fallback"); got != "Admin privileges required" {
		t.Errorf("ServerMessage = %q", got)
	}
	if got := ServerMessage(json.Unmarshal([]byte("x"), &struct{}{}), "fallback"); got != "fallback" {
		t.Errorf("ServerMessage fallback = %q", got)
	}
}
