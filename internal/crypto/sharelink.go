package crypto

import (
	"errors"
	"strconv"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

const (
	shareLinkAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

	DefaultShareLinkLength = 10
	MinShareLinkLength     = 1
	MaxShareLinkLength     = 64
)

var ErrShareLinkLength = errors.New("share link length must be between 1 and 64")

// ShareLinkGenerator builds share link hashes of the form
// {ownerID}-{base36 unix millis}-{random alphanumeric suffix}.
//
// Hashes are effectively unique but not guaranteed to be; callers must
// rely on the store's unique constraint and regenerate on collision.
type ShareLinkGenerator struct {
	length int
	now    func() time.Time
}

// NewShareLinkGenerator returns a generator producing suffixes of the given length.
func NewShareLinkGenerator(length int) (*ShareLinkGenerator, error) {
	if length < MinShareLinkLength || length > MaxShareLinkLength {
		return nil, ErrShareLinkLength
	}
	return &ShareLinkGenerator{length: length, now: time.Now}, nil
}

// Generate returns a new hash for ownerID.
func (g *ShareLinkGenerator) Generate(ownerID int64) (string, error) {
	suffix, err := gonanoid.Generate(shareLinkAlphabet, g.length)
	if err != nil {
		return "", err
	}

	return strconv.FormatInt(ownerID, 10) + "-" +
		strconv.FormatInt(g.now().UnixMilli(), 36) + "-" +
		suffix, nil
}
