package services

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"sync/atomic"
	"time"

	"github.com/you/marketsvc/domain"
)

const (
	usernameBaseLen  = 10
	passwordLen      = 8
	passwordAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnpqrstuvwxyz23456789"
)

// CredentialGeneratorImpl derives "name + 4 digits" usernames and short
// random passwords that an applicant can type from an email.
type CredentialGeneratorImpl struct {
	now func() time.Time
	seq uint32
}

// NewCredentialGenerator creates a new credential generator
func NewCredentialGenerator() *CredentialGeneratorImpl {
	return &CredentialGeneratorImpl{now: time.Now}
}

var _ domain.CredentialGenerator = (*CredentialGeneratorImpl)(nil)

// Generate implements domain.CredentialGenerator
func (g *CredentialGeneratorImpl) Generate(businessName string) (domain.Credentials, error) {
	password, err := randomString(passwordLen)
	if err != nil {
		return domain.Credentials{}, err
	}
	return domain.Credentials{
		Username: UsernameBase(businessName) + g.suffix(),
		Password: password,
	}, nil
}

// suffix is the last four digits of the current millisecond clock, advanced by
// a per-generator counter so retries in the same millisecond differ.
func (g *CredentialGeneratorImpl) suffix() string {
	n := atomic.AddUint32(&g.seq, 1) - 1
	ms := g.now().UnixMilli() + int64(n)
	return fmt.Sprintf("%04d", ms%10000)
}

// UsernameBase lowercases name, keeps only ASCII letters and digits and
// truncates to ten characters
func UsernameBase(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			if b.Len() == usernameBaseLen {
				break
			}
		}
	}
	if b.Len() == 0 {
		return "restaurant"
	}
	return b.String()
}

func randomString(n int) (string, error) {
	out := make([]byte, n)
	max := big.NewInt(int64(len(passwordAlphabet)))
	for i := range out {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to generate random character: %w", err)
		}
		out[i] = passwordAlphabet[idx.Int64()]
	}
	return string(out), nil
}
