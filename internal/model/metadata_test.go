package model

import "testing"

func TestEncodeDecodeMetadataRoundTrip(t *testing.T) {
	m := Metadata{"confidence": 0.75, "source": "manual"}
	blob, err := EncodeMetadata(m)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if blob == "" {
		t.Fatal("expected non-empty blob for non-empty metadata")
	}
	got, err := DecodeMetadata(blob)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got["source"] != "manual" {
		t.Errorf("expected source=manual, got %v", got["source"])
	}
	if got["confidence"].(float64) != 0.75 {
		t.Errorf("expected confidence=0.75, got %v", got["confidence"])
	}
}

func TestEncodeMetadataEmpty(t *testing.T) {
	blob, err := EncodeMetadata(nil)
	if err != nil {
		t.Fatalf("encode nil: %v", err)
	}
	if blob != "" {
		t.Errorf("expected empty blob for nil metadata, got %q", blob)
	}
	blob, err = EncodeMetadata(Metadata{})
	if err != nil {
		t.Fatalf("encode empty map: %v", err)
	}
	if blob != "" {
		t.Errorf("expected empty blob for empty metadata, got %q", blob)
	}
}

func TestDecodeMetadataEmptyBlob(t *testing.T) {
	m, err := DecodeMetadata("")
	if err != nil {
		t.Fatalf("decode empty: %v", err)
	}
	if m != nil {
		t.Errorf("expected nil map for empty blob, got %v", m)
	}
}

func TestIsValidPOS(t *testing.T) {
	for _, pos := range []string{"n", "v", "a", "r", "s", "t", "c", "p", "x", "u"} {
		if !IsValidPOS(pos) {
			t.Errorf("expected %q to be a valid POS", pos)
		}
	}
	if IsValidPOS("z") {
		t.Error("expected z to be invalid")
	}
}

func TestIsValidAdjPosition(t *testing.T) {
	if !IsValidAdjPosition("a") || !IsValidAdjPosition("ip") || !IsValidAdjPosition("p") {
		t.Error("expected a/ip/p to be valid adjective positions")
	}
	if IsValidAdjPosition("x") {
		t.Error("expected x to be invalid")
	}
}
