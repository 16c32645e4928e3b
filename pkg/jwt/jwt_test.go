package jwt

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestGenerateAndValidate(t *testing.T) {
	m := NewManager("secret", "tunehub")
	token, err := m.Generate("user_123", "Ada Lovelace", time.Minute)
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}
	claims, err := m.Validate(token)
	if err != nil {
		t.Fatalf("Validate error: %v", err)
	}
	if claims.Subject != "user_123" || claims.Name != "Ada Lovelace" {
		t.Fatalf("unexpected claims %+v", claims)
	}
}

func TestValidateRejectsForeignIssuerAndKey(t *testing.T) {
	m := NewManager("secret", "tunehub")

	other := NewManager("secret", "someone-else")
	token, _ := other.Generate("user_1", "", time.Minute)
	if _, err := m.Validate(token); !errors.Is(err, ErrInvalidIssuer) {
		t.Fatalf("expected ErrInvalidIssuer, got %v", err)
	}

	wrongKey := NewManager("other-secret", "tunehub")
	token, _ = wrongKey.Generate("user_1", "", time.Minute)
	if _, err := m.Validate(token); err == nil {
		t.Fatalf("expected signature error")
	}
}

func TestValidateRejectsExpired(t *testing.T) {
	m := NewManager("secret", "tunehub")
	token, _ := m.Generate("user_1", "", -time.Minute)
	if _, err := m.Validate(token); err == nil {
		t.Fatalf("expected expiry error")
	}
}

func TestValidateRejectsOtherHMACStrengths(t *testing.T) {
	m := NewManager("secret", "tunehub")
	for _, method := range []jwt.SigningMethod{jwt.SigningMethodHS384, jwt.SigningMethodHS512} {
		token := jwt.NewWithClaims(method, Claims{RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "tunehub",
			Subject:   "user_1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
		}})
		signed, err := token.SignedString([]byte("secret"))
		if err != nil {
			t.Fatalf("sign %s: %v", method.Alg(), err)
		}
		if _, err := m.Validate(signed); !errors.Is(err, jwt.ErrTokenSignatureInvalid) {
			t.Fatalf("%s: expected ErrTokenSignatureInvalid, got %v", method.Alg(), err)
		}
	}
}
