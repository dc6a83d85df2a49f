package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ErrMalformedRefreshToken is returned when a refresh token cannot be parsed.
var ErrMalformedRefreshToken = errors.New("malformed refresh token")

const (
	refreshPrefix    = "rt"
	refreshRandomLen = 16
)

// RefreshTokenGenerator mints opaque refresh tokens grouped into rotation families.
type RefreshTokenGenerator interface {
	// Generate creates a token in a new family.
	Generate() (token string, familyID string, err error)
	// GenerateWithFamily creates the next token of an existing family.
	GenerateWithFamily(familyID string) (string, error)
	// ExtractFamilyID parses the family ID from a token.
	ExtractFamilyID(token string) (string, error)
	// Hash returns the SHA-256 hash of a token.
	Hash(token string) string
	// CompareHashes compares two token hashes in constant time.
	CompareHashes(hash1, hash2 string) bool
}

type refreshTokenGenerator struct{}

// NewRefreshTokenGenerator creates a new RefreshTokenGenerator.
func NewRefreshTokenGenerator() RefreshTokenGenerator {
	return &refreshTokenGenerator{}
}

// Generate creates a token of the form rt_{family uuid}_{32 hex chars}.
func (g *refreshTokenGenerator) Generate() (string, string, error) {
	familyID := uuid.NewString()
	token, err := g.GenerateWithFamily(familyID)
	if err != nil {
		return "", "", err
	}
	return token, familyID, nil
}

func (g *refreshTokenGenerator) GenerateWithFamily(familyID string) (string, error) {
	if _, err := uuid.Parse(familyID); err != nil {
		return "", fmt.Errorf("%w: family id: %v", ErrMalformedRefreshToken, err)
	}

	b := make([]byte, refreshRandomLen)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate random part: %w", err)
	}
	return strings.Join([]string{refreshPrefix, familyID, hex.EncodeToString(b)}, "_"), nil
}

func (g *refreshTokenGenerator) ExtractFamilyID(token string) (string, error) {
	parts := strings.Split(token, "_")
	if len(parts) != 3 || parts[0] != refreshPrefix {
		return "", ErrMalformedRefreshToken
	}
	if _, err := uuid.Parse(parts[1]); err != nil {
		return "", fmt.Errorf("%w: family id: %v", ErrMalformedRefreshToken, err)
	}
	if len(parts[2]) != refreshRandomLen*2 {
		return "", fmt.Errorf("%w: random part length", ErrMalformedRefreshToken)
	}
	if _, err := hex.DecodeString(parts[2]); err != nil {
		return "", fmt.Errorf("%w: random part must be hex", ErrMalformedRefreshToken)
	}
	return parts[1], nil
}

func (g *refreshTokenGenerator) Hash(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func (g *refreshTokenGenerator) CompareHashes(hash1, hash2 string) bool {
	return subtle.ConstantTimeCompare([]byte(hash1), []byte(hash2)) == 1
}
