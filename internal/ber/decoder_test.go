package ber

import (
	"errors"
	"testing"
)

func TestNewBERDecoder(t *testing.T) {
	dec := NewBERDecoder([]byte{0x01, 0x02, 0x03})
	if dec.Offset() != 0 {
		t.Errorf("expected offset 0, got %d", dec.Offset())
	}
	if dec.Remaining() != 3 {
		t.Errorf("expected remaining 3, got %d", dec.Remaining())
	}
}

func TestBERDecoder_SetOffset(t *testing.T) {
	dec := NewBERDecoder([]byte{0x01, 0x02, 0x03})
	dec.SetOffset(2)
	if dec.Offset() != 2 {
		t.Errorf("expected offset 2, got %d", dec.Offset())
	}
	if dec.Remaining() != 1 {
		t.Errorf("expected remaining 1, got %d", dec.Remaining())
	}
}

func TestBERDecoder_ReadTag(t *testing.T) {
	tests := []struct {
		name       string
		data       []byte
		wantClass  int
		wantConstr int
		wantNumber int
	}{
		{"bindRequest (APPLICATION 0, constructed)", []byte{0x60}, ClassApplication, TypeConstructed, 0},
		{"unbindRequest (APPLICATION 2, primitive)", []byte{0x42}, ClassApplication, TypePrimitive, 2},
		{"searchResultEntry (APPLICATION 4, constructed)", []byte{0x64}, ClassApplication, TypeConstructed, 4},
		{"controls (context 0, constructed)", []byte{0xA0}, ClassContextSpecific, TypeConstructed, 0},
		{"sequence", []byte{0x30}, ClassUniversal, TypeConstructed, TagSequence},
		{"set", []byte{0x31}, ClassUniversal, TypeConstructed, TagSet},
		{"octet string", []byte{0x04}, ClassUniversal, TypePrimitive, TagOctetString},
		{"enumerated", []byte{0x0A}, ClassUniversal, TypePrimitive, TagEnumerated},
		{"long-form application tag 25 (intermediateResponse)", []byte{0x7F, 0x19}, ClassApplication, TypeConstructed, 25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dec := NewBERDecoder(tt.data)
			class, constructed, number, err := dec.ReadTag()
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if class != tt.wantClass || constructed != tt.wantConstr || number != tt.wantNumber {
				t.Errorf("got (class=%d constructed=%d number=%d), want (class=%d constructed=%d number=%d)",
					class, constructed, number, tt.wantClass, tt.wantConstr, tt.wantNumber)
			}
		})
	}
}

func TestBERDecoder_ReadTag_Truncated(t *testing.T) {
	dec := NewBERDecoder(nil)
	if _, _, _, err := dec.ReadTag(); err == nil {
		t.Fatal("expected error on empty input")
	}
}

func TestBERDecoder_ReadLength(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want int
	}{
		{"short form zero", []byte{0x00}, 0},
		{"short form 39 (a baseDN octet string)", []byte{0x27}, 39},
		{"long form two bytes", []byte{0x82, 0x01, 0x00}, 256},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dec := NewBERDecoder(tt.data)
			got, err := dec.ReadLength()
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %d, want %d", got, tt.want)
			}
		})
	}
}

func TestBERDecoder_ReadBoolean(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want bool
	}{
		{"false", []byte{0x01, 0x01, 0x00}, false},
		{"true (0xFF)", []byte{0x01, 0x01, 0xFF}, true},
		{"true (any non-zero)", []byte{0x01, 0x01, 0x01}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dec := NewBERDecoder(tt.data)
			got, err := dec.ReadBoolean()
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBERDecoder_ReadInteger(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want int64
	}{
		{"protocol version 3", []byte{0x02, 0x01, 0x03}, 3},
		{"messageID 0", []byte{0x02, 0x01, 0x00}, 0},
		{"negative value", []byte{0x02, 0x01, 0xFF}, -1},
		{"two-byte positive (sign-disambiguating leading zero)", []byte{0x02, 0x02, 0x00, 0x80}, 128},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dec := NewBERDecoder(tt.data)
			got, err := dec.ReadInteger()
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %d, want %d", got, tt.want)
			}
		})
	}
}

func TestBERDecoder_ReadOctetString(t *testing.T) {
	data := append([]byte{0x04, 0x02}, []byte("cn")...)
	dec := NewBERDecoder(data)
	got, err := dec.ReadOctetString()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(got) != "cn" {
		t.Errorf("got %q, want %q", got, "cn")
	}
}

func TestBERDecoder_ReadEnumerated(t *testing.T) {
	// wholeSubtree(2) SearchRequest scope
	dec := NewBERDecoder([]byte{0x0A, 0x01, 0x02})
	got, err := dec.ReadEnumerated()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 2 {
		t.Errorf("got %d, want 2", got)
	}
}

func TestBERDecoder_ReadBytes(t *testing.T) {
	dec := NewBERDecoder([]byte{0x01, 0x02, 0x03, 0x04})
	v, err := dec.ReadBytes(3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(v) != "\x01\x02\x03" {
		t.Errorf("got %v, want {1,2,3}", v)
	}
	if dec.Offset() != 3 {
		t.Errorf("expected offset 3, got %d", dec.Offset())
	}
}

func TestBERDecoder_ReadBytes_TruncatedIsError(t *testing.T) {
	dec := NewBERDecoder([]byte{0x01})
	if _, err := dec.ReadBytes(5); err == nil {
		t.Fatal("expected error reading past end of buffer")
	}
}

func TestBERDecoder_PeekTag(t *testing.T) {
	dec := NewBERDecoder([]byte{0xA0, 0x00})
	class, constructed, number, err := dec.PeekTag()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if class != ClassContextSpecific || constructed != TypeConstructed || number != 0 {
		t.Errorf("got (class=%d constructed=%d number=%d)", class, constructed, number)
	}
	if dec.Offset() != 0 {
		t.Errorf("PeekTag must not advance the offset, got %d", dec.Offset())
	}
}

func TestBERDecoder_Skip(t *testing.T) {
	// a referral [3] we don't retain, followed by a sibling value
	data := []byte{0xA3, 0x03, 0x04, 0x01, 'x', 0x05, 0x00}
	dec := NewBERDecoder(data)
	if err := dec.Skip(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dec.Offset() != 5 {
		t.Errorf("expected offset 5 after skipping the referral element, got %d", dec.Offset())
	}
}

func TestBERDecoder_ReadTaggedValue(t *testing.T) {
	// BindRequest's simple credential, authentication choice tag [0]
	data := append([]byte{0x80, 0x04}, []byte("pass")...)
	dec := NewBERDecoder(data)
	tagNum, constructed, value, err := dec.ReadTaggedValue()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tagNum != 0 || constructed {
		t.Errorf("got (tagNum=%d constructed=%v)", tagNum, constructed)
	}
	if string(value) != "pass" {
		t.Errorf("got %q, want %q", value, "pass")
	}
}

func TestBERDecoder_ReadTaggedValue_RejectsNonContextClass(t *testing.T) {
	dec := NewBERDecoder([]byte{0x30, 0x00})
	if _, _, _, err := dec.ReadTaggedValue(); err == nil {
		t.Fatal("expected error for a universal-class tag")
	}
}

func TestBERDecoder_ReadSequenceContents(t *testing.T) {
	// SEQUENCE { INTEGER 1, INTEGER 2 }
	data := []byte{0x30, 0x06, 0x02, 0x01, 0x01, 0x02, 0x01, 0x02}
	dec := NewBERDecoder(data)
	sub, err := dec.ReadSequenceContents()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	first, err := sub.ReadInteger()
	if err != nil || first != 1 {
		t.Fatalf("got (%d, %v), want (1, nil)", first, err)
	}
	second, err := sub.ReadInteger()
	if err != nil || second != 2 {
		t.Fatalf("got (%d, %v), want (2, nil)", second, err)
	}
	if sub.Remaining() != 0 {
		t.Errorf("expected sub-decoder exhausted, %d bytes remain", sub.Remaining())
	}
}

func TestBERDecoder_ReadSetContents(t *testing.T) {
	// SET { OCTET STRING "a", OCTET STRING "b" } — attribute values
	data := []byte{0x31, 0x06, 0x04, 0x01, 'a', 0x04, 0x01, 'b'}
	dec := NewBERDecoder(data)
	sub, err := dec.ReadSetContents()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var values []string
	for sub.Remaining() > 0 {
		v, err := sub.ReadOctetString()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		values = append(values, string(v))
	}
	if len(values) != 2 || values[0] != "a" || values[1] != "b" {
		t.Errorf("got %v, want [a b]", values)
	}
}

func TestBERDecoder_ReadContextTagContents(t *testing.T) {
	// [0] Controls wrapping one inner SEQUENCE
	data := []byte{0xA0, 0x04, 0x30, 0x02, 0x05, 0x00}
	dec := NewBERDecoder(data)
	sub, err := dec.ReadContextTagContents(0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sub.Remaining() != 4 {
		t.Errorf("expected 4 bytes of inner content, got %d", sub.Remaining())
	}
}

func TestBERDecoder_ReadContextTagContents_WrongNumberIsError(t *testing.T) {
	data := []byte{0xA0, 0x00}
	dec := NewBERDecoder(data)
	if _, err := dec.ReadContextTagContents(1); err == nil {
		t.Fatal("expected error for mismatched context tag number")
	}
}

func TestBERDecoder_IsContextTag(t *testing.T) {
	dec := NewBERDecoder([]byte{0xA0, 0x00})
	if !dec.IsContextTag(0) {
		t.Error("expected IsContextTag(0) to be true")
	}
	if dec.IsContextTag(1) {
		t.Error("expected IsContextTag(1) to be false")
	}
	if dec.Offset() != 0 {
		t.Errorf("IsContextTag must not advance the offset, got %d", dec.Offset())
	}
}

func TestDecodeError_Unwrap(t *testing.T) {
	wrapped := errors.New("boom")
	err := NewDecodeError(3, "failed to read X", wrapped)
	if !errors.Is(err, wrapped) {
		t.Error("expected errors.Is to find the wrapped error")
	}
	if err.Error() == "" {
		t.Error("expected a non-empty message")
	}
}
