package wire

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestEncodeDecodeUpdate(t *testing.T) {
	payload := UpdatePayload{
		Network:    "192.168.0.0",
		Netmask:    "255.255.255.0",
		LocalPref:  100,
		SelfOrigin: true,
		ASPath:     []int{7, 3},
		Origin:     "EGP",
	}
	msg, err := Encode("10.0.0.1", "10.0.0.2", TypeUpdate, payload)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	frame, err := Marshal(msg)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	decoded, err := Decode(frame)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if decoded.Type != TypeUpdate || decoded.Src != "10.0.0.1" || decoded.Dst != "10.0.0.2" {
		t.Errorf("decoded envelope mismatch: %+v", decoded)
	}

	var got UpdatePayload
	if err := json.Unmarshal(decoded.Msg, &got); err != nil {
		t.Fatalf("payload unmarshal: %v", err)
	}
	if diff := cmp.Diff(payload, got); diff != "" {
		t.Errorf("payload round-trip mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeMalformed(t *testing.T) {
	if _, err := Decode([]byte("not json")); err == nil {
		t.Error("expected error decoding invalid JSON")
	}
	if _, err := Decode([]byte(`{"src":"a","type":"update","msg":{}}`)); err == nil {
		t.Error("expected error decoding message missing dst")
	}
}

func TestRevokePayloadOrderedList(t *testing.T) {
	payload := RevokePayload{
		{Network: "10.0.0.0", Netmask: "255.0.0.0"},
		{Network: "10.1.0.0", Netmask: "255.255.0.0"},
	}
	msg, err := Encode("a", "b", TypeRevoke, payload)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	var got RevokePayload
	if err := json.Unmarshal(msg.Msg, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if diff := cmp.Diff(payload, got); diff != "" {
		t.Errorf("revoke payload order not preserved (-want +got):\n%s", diff)
	}
}
