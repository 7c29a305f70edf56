package memo

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"strings"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/mr-tron/base58"
	"golang.org/x/crypto/ripemd160"
)

const wifVersion = 0x80

// ParsePrivateKeyWIF decodes a base58check WIF private key.
func ParsePrivateKeyWIF(wif string) (*secp256k1.PrivateKey, error) {
	raw, err := base58.Decode(wif)
	if err != nil {
		return nil, fmt.Errorf("decode wif: %w", err)
	}
	// version byte + 32 key bytes + 4 checksum bytes, plus an optional
	// compression flag.
	if len(raw) != 37 && len(raw) != 38 {
		return nil, fmt.Errorf("wif has %d bytes", len(raw))
	}
	if raw[0] != wifVersion {
		return nil, fmt.Errorf("wif version byte %#x", raw[0])
	}

	body, checksum := raw[:len(raw)-4], raw[len(raw)-4:]
	if !bytes.Equal(doubleSha256(body)[:4], checksum) {
		return nil, fmt.Errorf("wif checksum mismatch")
	}

	return secp256k1.PrivKeyFromBytes(body[1:33]), nil
}

// FormatPrivateKeyWIF encodes a private key in base58check WIF form.
func FormatPrivateKeyWIF(priv *secp256k1.PrivateKey) string {
	body := make([]byte, 0, 37)
	body = append(body, wifVersion)
	body = append(body, priv.Serialize()...)
	body = append(body, doubleSha256(body)[:4]...)
	return base58.Encode(body)
}

// ParsePublicKey decodes a prefixed base58 public key: a 33-byte compressed
// point followed by a 4-byte ripemd160 checksum.
func ParsePublicKey(key, prefix string) (*secp256k1.PublicKey, error) {
	if !strings.HasPrefix(key, prefix) {
		return nil, fmt.Errorf("public key %q lacks prefix %q", key, prefix)
	}

	raw, err := base58.Decode(strings.TrimPrefix(key, prefix))
	if err != nil {
		return nil, fmt.Errorf("decode public key: %w", err)
	}
	if len(raw) != 37 {
		return nil, fmt.Errorf("public key has %d bytes", len(raw))
	}

	point, checksum := raw[:33], raw[33:]
	if !bytes.Equal(ripemd160Sum(point)[:4], checksum) {
		return nil, fmt.Errorf("public key checksum mismatch")
	}

	return secp256k1.ParsePubKey(point)
}

// FormatPublicKey encodes a public key with the chain's address prefix.
func FormatPublicKey(pub *secp256k1.PublicKey, prefix string) string {
	point := pub.SerializeCompressed()
	body := make([]byte, 0, 37)
	body = append(body, point...)
	body = append(body, ripemd160Sum(point)[:4]...)
	return prefix + base58.Encode(body)
}

func doubleSha256(data []byte) []byte {
	first := sha256.Sum256(data)
	second := sha256.Sum256(first[:])
	return second[:]
}

func ripemd160Sum(data []byte) []byte {
	hasher := ripemd160.New()
	hasher.Write(data)
	return hasher.Sum(nil)
}
