package ipc

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestParseRequest(t *testing.T) {
	req, err := ParseRequest([]byte(`{"command":"SET_PARAMS","payload":{"gravity":500}}`))
	if err != nil {
		t.Fatalf("ParseRequest: %v", err)
	}
	if req.Command != CommandSetParams {
		t.Errorf("command = %q", req.Command)
	}

	var p SetParamsPayload
	if err := json.Unmarshal(req.Payload, &p); err != nil {
		t.Fatalf("payload: %v", err)
	}
	if p.Gravity == nil || *p.Gravity != 500 {
		t.Errorf("gravity = %v", p.Gravity)
	}
	if p.Drag != nil {
		t.Error("unset field should stay nil")
	}
}

func TestParseRequestMalformed(t *testing.T) {
	if _, err := ParseRequest([]byte("{not json")); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestOKResponseRoundtrip(t *testing.T) {
	resp, err := NewOKResponse(TossData{Tossed: 3})
	if err != nil {
		t.Fatalf("NewOKResponse: %v", err)
	}

	raw, err := resp.Marshal()
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var decoded Response
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if decoded.Status != "OK" {
		t.Errorf("status = %q", decoded.Status)
	}

	var data TossData
	if err := json.Unmarshal(decoded.Data, &data); err != nil {
		t.Fatalf("data: %v", err)
	}
	if data.Tossed != 3 {
		t.Errorf("tossed = %d", data.Tossed)
	}
}

func TestOKResponseNilData(t *testing.T) {
	resp, err := NewOKResponse(nil)
	if err != nil {
		t.Fatalf("NewOKResponse: %v", err)
	}

	raw, err := resp.Marshal()
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if strings.Contains(string(raw), "data") {
		t.Errorf("nil data should be omitted: %s", raw)
	}
}

func TestErrorResponse(t *testing.T) {
	resp := NewErrorResponse("no such window")
	if resp.Status != "ERROR" || resp.Error != "no such window" {
		t.Errorf("response = %+v", resp)
	}
}
