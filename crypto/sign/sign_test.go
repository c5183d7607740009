package sign

import (
	"bytes"
	"testing"
)

// copied from official crypto.ed25519 tests
func TestSignVerify(t *testing.T) {
	key, err := GenerateKey(nil)
	if err != nil {
		t.Fatal(err)
	}

	message := []byte("test message")
	sig := key.Sign(message)

	pk, ok := key.Public()
	if !ok {
		t.Errorf("bad PK?")
	}

	if !pk.Verify(message, sig) {
		t.Errorf("valid signature rejected")
	}

	wrongMessage := []byte("wrong message")
	if pk.Verify(wrongMessage, sig) {
		t.Errorf("signature of different message accepted")
	}

	if pk.Verify(message, sig[:10]) {
		t.Errorf("truncated signature accepted")
	}
}

func TestDeterministicKey(t *testing.T) {
	seed := []byte("deterministic tests need 256 bit")
	k1, err := GenerateKey(bytes.NewReader(seed))
	if err != nil {
		t.Fatal(err)
	}
	k2, err := GenerateKey(bytes.NewReader(seed))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(k1, k2) {
		t.Fatal("Expect the same key from the same seed")
	}
}

func TestParsePublicKey(t *testing.T) {
	key, err := GenerateKey(nil)
	if err != nil {
		t.Fatal(err)
	}
	pk, _ := key.Public()
	got, err := ParsePublicKey(pk.Encode())
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, pk) {
		t.Fatal("Round trip changed the key")
	}

	for _, bad := range []string{"", "not base64!", "AAAA"} {
		if _, err := ParsePublicKey(bad); err != ErrBadPublicKey {
			t.Errorf("Expect ErrBadPublicKey for %q, got %v", bad, err)
		}
	}
}
