package memo

import (
	"bytes"
	"crypto/sha256"
	"errors"
	"strings"
	"testing"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/mr-tron/base58"

	"transferwatch/internal/model"
)

func testKeys() (sender, recipient *secp256k1.PrivateKey) {
	sender = secp256k1.PrivKeyFromBytes(bytes.Repeat([]byte{0x11}, 32))
	recipient = secp256k1.PrivKeyFromBytes(bytes.Repeat([]byte{0x22}, 32))
	return sender, recipient
}

func testMemo(t *testing.T, plaintext string) *model.MemoPayload {
	t.Helper()
	sender, recipient := testKeys()

	message, err := Encode(sender, recipient.PubKey(), model.Nonce(424242), plaintext)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	return &model.MemoPayload{
		From:    FormatPublicKey(sender.PubKey(), model.DefaultChainPrefix),
		To:      FormatPublicKey(recipient.PubKey(), model.DefaultChainPrefix),
		Nonce:   model.Nonce(424242),
		Message: message,
	}
}

func TestDecryptRoundTrip(t *testing.T) {
	_, recipient := testKeys()
	payload := testMemo(t, "deposit for order 77")

	decrypter, err := NewKeyDecrypter(FormatPrivateKeyWIF(recipient), model.DefaultChainPrefix)
	if err != nil {
		t.Fatalf("new decrypter: %v", err)
	}

	plaintext, err := decrypter.Decrypt(payload)
	if err != nil {
		t.Fatalf("decrypt: %v", err)
	}
	if plaintext != "deposit for order 77" {
		t.Fatalf("plaintext = %q", plaintext)
	}
}

func TestDecryptAsSender(t *testing.T) {
	sender, _ := testKeys()
	payload := testMemo(t, "note to self")

	decrypter, err := NewKeyDecrypter(FormatPrivateKeyWIF(sender), model.DefaultChainPrefix)
	if err != nil {
		t.Fatalf("new decrypter: %v", err)
	}

	plaintext, err := decrypter.Decrypt(payload)
	if err != nil {
		t.Fatalf("decrypt: %v", err)
	}
	if plaintext != "note to self" {
		t.Fatalf("plaintext = %q", plaintext)
	}
}

func TestDecryptUnrelatedKeyReportsKeyMissing(t *testing.T) {
	stranger := secp256k1.PrivKeyFromBytes(bytes.Repeat([]byte{0x33}, 32))
	payload := testMemo(t, "secret")

	decrypter, err := NewKeyDecrypter(FormatPrivateKeyWIF(stranger), model.DefaultChainPrefix)
	if err != nil {
		t.Fatalf("new decrypter: %v", err)
	}

	if _, err := decrypter.Decrypt(payload); !errors.Is(err, ErrKeyMissing) {
		t.Fatalf("err = %v, want ErrKeyMissing", err)
	}
}

func TestDecryptCorruptedMessageFails(t *testing.T) {
	_, recipient := testKeys()
	payload := testMemo(t, "will be corrupted")
	payload.Message = strings.Repeat("00", len(payload.Message)/2)

	decrypter, err := NewKeyDecrypter(FormatPrivateKeyWIF(recipient), model.DefaultChainPrefix)
	if err != nil {
		t.Fatalf("new decrypter: %v", err)
	}

	if _, err := decrypter.Decrypt(payload); err == nil {
		t.Fatalf("expected decode failure")
	} else if errors.Is(err, ErrKeyMissing) {
		t.Fatalf("corruption must not look like a missing key")
	}
}

func TestNopDecrypter(t *testing.T) {
	if _, err := (NopDecrypter{}).Decrypt(&model.MemoPayload{}); !errors.Is(err, ErrKeyMissing) {
		t.Fatalf("err = %v, want ErrKeyMissing", err)
	}
}

func TestWIFRoundTrip(t *testing.T) {
	priv := secp256k1.PrivKeyFromBytes(bytes.Repeat([]byte{0x44}, 32))

	parsed, err := ParsePrivateKeyWIF(FormatPrivateKeyWIF(priv))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !bytes.Equal(parsed.Serialize(), priv.Serialize()) {
		t.Fatalf("wif round trip changed the key")
	}
}

func TestParsePrivateKeyWIFAgainstManualEncoding(t *testing.T) {
	keyBytes := bytes.Repeat([]byte{0x55}, 32)

	body := append([]byte{0x80}, keyBytes...)
	first := sha256.Sum256(body)
	second := sha256.Sum256(first[:])
	wif := base58.Encode(append(body, second[:4]...))

	parsed, err := ParsePrivateKeyWIF(wif)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !bytes.Equal(parsed.Serialize(), keyBytes) {
		t.Fatalf("parsed key mismatch")
	}
}

func TestParsePrivateKeyWIFRejectsBadChecksum(t *testing.T) {
	priv := secp256k1.PrivKeyFromBytes(bytes.Repeat([]byte{0x66}, 32))
	wif := FormatPrivateKeyWIF(priv)

	raw, err := base58.Decode(wif)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	raw[len(raw)-1] ^= 0xff
	if _, err := ParsePrivateKeyWIF(base58.Encode(raw)); err == nil {
		t.Fatalf("expected checksum error")
	}
}

func TestPublicKeyRoundTrip(t *testing.T) {
	priv := secp256k1.PrivKeyFromBytes(bytes.Repeat([]byte{0x77}, 32))
	encoded := FormatPublicKey(priv.PubKey(), "TEST")

	if !strings.HasPrefix(encoded, "TEST") {
		t.Fatalf("encoded key %q lacks prefix", encoded)
	}

	parsed, err := ParsePublicKey(encoded, "TEST")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !bytes.Equal(parsed.SerializeCompressed(), priv.PubKey().SerializeCompressed()) {
		t.Fatalf("public key round trip changed the key")
	}

	if _, err := ParsePublicKey(encoded, model.DefaultChainPrefix); err == nil {
		t.Fatalf("expected error for wrong prefix")
	}
}
