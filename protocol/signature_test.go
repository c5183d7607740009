package protocol

import (
	"bytes"
	"testing"

	"github.com/veriai-sys/veriai-go/crypto/sign"
)

func TestSignResponse(t *testing.T) {
	key, err := sign.GenerateKey(nil)
	if err != nil {
		t.Fatal(err)
	}
	pk, _ := key.Public()

	sigB64 := SignResponse(key, "s1", "agent_a", "hello")
	sig, err := DecodeSignature(sigB64)
	if err != nil {
		t.Fatal(err)
	}
	if !pk.Verify(SignedMessage("s1", "agent_a", "hello"), sig) {
		t.Fatal("valid signature rejected")
	}
	if pk.Verify(SignedMessage("s1", "agent_a", "hello!"), sig) {
		t.Fatal("signature over different text accepted")
	}
	if pk.Verify(SignedMessage("s2", "agent_a", "hello"), sig) {
		t.Fatal("signature for different session accepted")
	}
}

func TestDecodeSignature(t *testing.T) {
	for _, bad := range []string{"", "@@@", "AAAA"} {
		if _, err := DecodeSignature(bad); err != ErrBadSignature {
			t.Errorf("Expect ErrBadSignature for %q, got %v", bad, err)
		}
	}
}

func TestSignedMessageFieldBoundaries(t *testing.T) {
	tests := [][2][3]string{
		{{"a\x00b", "c", "t"}, {"a", "b\x00c", "t"}},
		{{"s1", "agent_a\x00", "x"}, {"s1", "agent_a", "\x00x"}},
		{{"s1a", "gent", "t"}, {"s1", "agent", "t"}},
	}
	for _, tt := range tests {
		x, y := tt[0], tt[1]
		if bytes.Equal(SignedMessage(x[0], x[1], x[2]), SignedMessage(y[0], y[1], y[2])) {
			t.Errorf("Expect distinct messages for %q and %q", x, y)
		}
	}
}
