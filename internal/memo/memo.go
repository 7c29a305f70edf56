// Package memo decrypts the optional encrypted note attached to transfer
// operations.
package memo

import (
	"errors"
	"fmt"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"

	"transferwatch/internal/model"
)

// ErrKeyMissing reports that no decryption key is available for the memo.
// The pipeline degrades to a sentinel status instead of failing.
var ErrKeyMissing = errors.New("memo: no decryption key for this memo")

// Decrypter turns an encrypted memo payload into plaintext.
type Decrypter interface {
	Decrypt(payload *model.MemoPayload) (string, error)
}

// KeyDecrypter decrypts memos addressed to, or sent by, one memo key.
type KeyDecrypter struct {
	priv   *secp256k1.PrivateKey
	pubKey string
	prefix string
}

// NewKeyDecrypter builds a decrypter from a WIF private key and the chain's
// address prefix.
func NewKeyDecrypter(wif, prefix string) (*KeyDecrypter, error) {
	priv, err := ParsePrivateKeyWIF(wif)
	if err != nil {
		return nil, fmt.Errorf("memo key: %w", err)
	}
	if prefix == "" {
		prefix = model.DefaultChainPrefix
	}
	return &KeyDecrypter{
		priv:   priv,
		pubKey: FormatPublicKey(priv.PubKey(), prefix),
		prefix: prefix,
	}, nil
}

func (d *KeyDecrypter) Decrypt(payload *model.MemoPayload) (string, error) {
	// The counterparty key drives the ECDH exchange. If our key is on
	// neither side we cannot decrypt at all.
	var other string
	switch d.pubKey {
	case payload.To:
		other = payload.From
	case payload.From:
		other = payload.To
	default:
		return "", ErrKeyMissing
	}

	pub, err := ParsePublicKey(other, d.prefix)
	if err != nil {
		return "", fmt.Errorf("counterparty key: %w", err)
	}

	return Decode(d.priv, pub, payload.Nonce, payload.Message)
}

// NopDecrypter is used when no memo key is configured; every memo degrades
// to the key-missing status.
type NopDecrypter struct{}

func (NopDecrypter) Decrypt(*model.MemoPayload) (string, error) {
	return "", ErrKeyMissing
}
