package credential

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/JoeShih716/zenith-ledger/internal/app/core/usecase"
)

// BcryptHasher 以 bcrypt 雜湊登入憑證
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher 建立 BcryptHasher，cost <= 0 時使用 bcrypt.DefaultCost
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost <= 0 {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

func (h *BcryptHasher) Hash(secret string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(secret), h.cost)
	if err != nil {
		return "", fmt.Errorf("hash credential: %w", err)
	}
	return string(hashed), nil
}

func (h *BcryptHasher) Compare(hashed, secret string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(secret)) == nil
}

var _ usecase.CredentialHasher = (*BcryptHasher)(nil)
