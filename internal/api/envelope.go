package api

import (
	"encoding/json"

	"github.com/tidwall/gjson"
)

// The backend wraps payloads in an envelope, but not consistently: some
// endpoints return {"success":..,"message":..,"data":<payload>} and others
// return the payload at the top level. normalizePayload is the single place
// that collapses both shapes to the bare payload before decoding.
func normalizePayload(body []byte) []byte {
	if !gjson.ValidBytes(body) {
		return body
	}
	if data := gjson.GetBytes(body, "data"); data.Exists() {
		return []byte(data.Raw)
	}
	return body
}

// decodePayload normalizes body and unmarshals the payload into out.
// A JSON null payload (e.g. a success envelope with no data) leaves out
// untouched.
func decodePayload(body []byte, out any) error {
	payload := normalizePayload(body)
	if len(payload) == 0 || string(payload) == "null" {
		return nil
	}
	return json.Unmarshal(payload, out)
}

// serverMessage pulls the human-readable message out of an error response
// body, trying the envelope's "message" then "error" keys.
func serverMessage(body []byte) string {
	if !gjson.ValidBytes(body) {
		return ""
	}
	if msg := gjson.GetBytes(body, "message"); msg.Type == gjson.String && msg.Str != "" {
		return msg.Str
	}
	if msg := gjson.GetBytes(body, "error"); msg.Type == gjson.String && msg.Str != "" {
		return msg.Str
	}
	return ""
}
