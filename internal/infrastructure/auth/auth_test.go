package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

func TestJWTService_RoundTrip(t *testing.T) {
	svc := NewJWTService("secret", time.Hour)
	userID := uuid.New()

	token, err := svc.Issue(userID)
	if err != nil {
		t.Fatalf("Issue() unexpected error = %v", err)
	}

	got, err := svc.Verify(token)
	if err != nil {
		t.Fatalf("Verify() unexpected error = %v", err)
	}
	if got != userID {
		t.Errorf("Verify() = %v, want %v", got, userID)
	}
}

func TestJWTService_Verify_Rejects(t *testing.T) {
	userID := uuid.New()
	svc := NewJWTService("secret", time.Hour)

	expired := NewJWTService("secret", time.Hour)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expiredToken, _ := expired.Issue(userID)

	otherKey, _ := NewJWTService("other", time.Hour).Issue(userID)

	noneToken, _ := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{UserID: userID}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)

	tests := []struct {
		name  string
		token string
	}{
		{"expired", expiredToken},
		{"wrong key", otherKey},
		{"none algorithm", noneToken},
		{"garbage", "not-a-token"},
		{"empty", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Verify(tt.token)
			if !errors.Is(err, ErrInvalidToken) {
				t.Errorf("Verify() error = %v, want %v", err, ErrInvalidToken)
			}
		})
	}
}

func TestBcryptHasher(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	hash, err := h.Hash("Passw0rd!")
	if err != nil {
		t.Fatalf("Hash() unexpected error = %v", err)
	}
	if hash == "Passw0rd!" {
		t.Fatal("Hash() returned the plain password")
	}

	if err := h.Compare(hash, "Passw0rd!"); err != nil {
		t.Errorf("Compare() correct password error = %v", err)
	}
	if err := h.Compare(hash, "wrong"); !errors.Is(err, ErrPasswordMismatch) {
		t.Errorf("Compare() wrong password error = %v, want %v", err, ErrPasswordMismatch)
	}
	if err := h.Compare("not-a-hash", "Passw0rd!"); err == nil || errors.Is(err, ErrPasswordMismatch) {
		t.Errorf("Compare() malformed hash error = %v", err)
	}
}

func TestNewBcryptHasher_CostOutOfRange(t *testing.T) {
	if h := NewBcryptHasher(0); h.cost != bcrypt.DefaultCost {
		t.Errorf("cost = %d, want %d", h.cost, bcrypt.DefaultCost)
	}
}
