package jwt

import (
	"crypto"
	_ "crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/go-jose/go-jose/v4"
)

var ErrUnknownKey = errors.New("unknown signing key")

// KeySet holds the public keys the identity provider signs session tokens
// with, indexed by key id.
type KeySet struct {
	keys map[string]jose.JSONWebKey
}

// ParseKeySet decodes a JWKS document. Only public signature keys are kept.
func ParseKeySet(data []byte) (*KeySet, error) {
	var jwks jose.JSONWebKeySet
	if err := json.Unmarshal(data, &jwks); err != nil {
		return nil, fmt.Errorf("decode jwks: %w", err)
	}
	ks := &KeySet{keys: make(map[string]jose.JSONWebKey, len(jwks.Keys))}
	for _, k := range jwks.Keys {
		if !k.Valid() || !k.IsPublic() || (k.Use != "" && k.Use != "sig") {
			continue
		}
		kid := k.KeyID
		if kid == "" {
			kid = Thumbprint(k)
		}
		ks.keys[kid] = k
	}
	if len(ks.keys) == 0 {
		return nil, errors.New("jwks contains no usable signing keys")
	}
	return ks, nil
}

// LoadKeySet reads a JWKS document from path.
func LoadKeySet(path string) (*KeySet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseKeySet(data)
}

// Lookup returns the public key for kid.
func (ks *KeySet) Lookup(kid string) (interface{}, error) {
	k, ok := ks.keys[kid]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKey, kid)
	}
	return k.Key, nil
}

func (ks *KeySet) Len() int { return len(ks.keys) }

// Thumbprint derives a stable short key id from the key's RFC 7638 thumbprint.
func Thumbprint(k jose.JSONWebKey) string {
	tp, err := k.Thumbprint(crypto.SHA256)
	if err != nil {
		return ""
	}
	return base64.RawURLEncoding.EncodeToString(tp[:8])
}
