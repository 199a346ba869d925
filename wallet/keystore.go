// Package wallet provides encrypted key storage and transaction-building
// helpers for a holder of a secret key.
package wallet

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"os"

	"golang.org/x/crypto/pbkdf2"

	"github.com/esrbwt1/zelealem/crypto"
)

const pbkdf2Iterations = 210_000

type keystoreFile struct {
	PubKey     string `json:"pub_key"`
	Salt       string `json:"salt"`
	Nonce      string `json:"nonce"`
	CipherText string `json:"cipher_text"`
}

// SaveKey encrypts sec with password and writes it to path as a JSON
// keystore file.
func SaveKey(path, password string, sec crypto.SecretKey) error {
	salt := make([]byte, 16)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return err
	}
	key := deriveKey(password, salt)

	block, err := aes.NewCipher(key)
	if err != nil {
		return err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return err
	}
	cipherText := gcm.Seal(nil, nonce, sec[:], nil)

	ks := keystoreFile{
		PubKey:     sec.Public().Hex(),
		Salt:       hex.EncodeToString(salt),
		Nonce:      hex.EncodeToString(nonce),
		CipherText: hex.EncodeToString(cipherText),
	}
	data, err := json.MarshalIndent(ks, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}

// LoadKey decrypts the keystore at path using password.
func LoadKey(path, password string) (crypto.SecretKey, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return crypto.SecretKey{}, err
	}
	var ks keystoreFile
	if err := json.Unmarshal(data, &ks); err != nil {
		return crypto.SecretKey{}, err
	}
	salt, err := hex.DecodeString(ks.Salt)
	if err != nil {
		return crypto.SecretKey{}, err
	}
	nonce, err := hex.DecodeString(ks.Nonce)
	if err != nil {
		return crypto.SecretKey{}, err
	}
	cipherText, err := hex.DecodeString(ks.CipherText)
	if err != nil {
		return crypto.SecretKey{}, err
	}

	key := deriveKey(password, salt)
	block, err := aes.NewCipher(key)
	if err != nil {
		return crypto.SecretKey{}, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return crypto.SecretKey{}, err
	}
	secBytes, err := gcm.Open(nil, nonce, cipherText, nil)
	if err != nil {
		return crypto.SecretKey{}, errors.New("wrong password or corrupted keystore")
	}
	if len(secBytes) != len(crypto.SecretKey{}) {
		return crypto.SecretKey{}, errors.New("corrupted keystore: unexpected key length")
	}
	var sec crypto.SecretKey
	copy(sec[:], secBytes)
	return sec, nil
}

func deriveKey(password string, salt []byte) []byte {
	return pbkdf2.Key([]byte(password), salt, pbkdf2Iterations, 32, sha256.New)
}
