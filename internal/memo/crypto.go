package memo

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"transferwatch/internal/model"
)

// Memo cipher: an ECDH shared secret between the sender's and recipient's
// memo keys is hashed with the nonce into an AES-256-CBC key and IV. The
// plaintext carries a 4-byte sha256 checksum prefix so a wrong key is
// detected instead of yielding garbage.

// keySchedule derives the AES key and IV for one memo.
func keySchedule(priv *secp256k1.PrivateKey, pub *secp256k1.PublicKey, nonce model.Nonce) (key, iv []byte) {
	shared := sha512.Sum512(secp256k1.GenerateSharedSecret(priv, pub))
	seed := nonce.String() + hex.EncodeToString(shared[:])
	material := sha512.Sum512([]byte(seed))
	return material[:32], material[32:48]
}

// Decode decrypts a hex-encoded memo message with the shared secret of the
// two keys.
func Decode(priv *secp256k1.PrivateKey, pub *secp256k1.PublicKey, nonce model.Nonce, message string) (string, error) {
	ciphertext, err := decodeHex(message)
	if err != nil {
		return "", fmt.Errorf("decode memo message: %w", err)
	}
	if len(ciphertext) == 0 || len(ciphertext)%aes.BlockSize != 0 {
		return "", fmt.Errorf("memo ciphertext has %d bytes", len(ciphertext))
	}

	key, iv := keySchedule(priv, pub, nonce)
	block, err := aes.NewCipher(key)
	if err != nil {
		return "", err
	}

	plain := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(plain, ciphertext)

	plain, err = unpad(plain)
	if err != nil {
		return "", err
	}
	if len(plain) < 4 {
		return "", fmt.Errorf("memo plaintext too short")
	}

	checksum, text := plain[:4], plain[4:]
	digest := sha256.Sum256(text)
	if !bytes.Equal(digest[:4], checksum) {
		return "", fmt.Errorf("memo checksum mismatch")
	}

	return string(text), nil
}

// Encode encrypts plaintext into the wire memo message. It is the inverse of
// Decode and backs the round-trip tests and dev tooling.
func Encode(priv *secp256k1.PrivateKey, pub *secp256k1.PublicKey, nonce model.Nonce, plaintext string) (string, error) {
	digest := sha256.Sum256([]byte(plaintext))
	plain := append(digest[:4], []byte(plaintext)...)
	plain = pad(plain)

	key, iv := keySchedule(priv, pub, nonce)
	block, err := aes.NewCipher(key)
	if err != nil {
		return "", err
	}

	ciphertext := make([]byte, len(plain))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(ciphertext, plain)

	return strings.TrimPrefix(hexutil.Encode(ciphertext), "0x"), nil
}

func decodeHex(message string) ([]byte, error) {
	if !strings.HasPrefix(message, "0x") {
		message = "0x" + message
	}
	return hexutil.Decode(message)
}

// pad applies PKCS#7 padding up to the AES block size.
func pad(data []byte) []byte {
	padding := aes.BlockSize - len(data)%aes.BlockSize
	for i := 0; i < padding; i++ {
		data = append(data, byte(padding))
	}
	return data
}

func unpad(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty plaintext")
	}
	padding := int(data[len(data)-1])
	if padding == 0 || padding > aes.BlockSize || padding > len(data) {
		return nil, fmt.Errorf("bad padding")
	}
	for _, b := range data[len(data)-padding:] {
		if int(b) != padding {
			return nil, fmt.Errorf("bad padding")
		}
	}
	return data[:len(data)-padding], nil
}
