// Package password generates random passwords from selectable character
// classes.
package password

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"

	apperrors "github.com/utafrali/ShopHub/pkg/errors"
	"github.com/utafrali/ShopHub/pkg/validator"
)

// Character classes.
const (
	LowercaseChars = "abcdefghijklmnopqrstuvwxyz"
	UppercaseChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	NumberChars    = "0123456789"
	SymbolChars    = "!@#$%^&*()_+-=[]{}|;:,.<>?"
)

// Length bounds.
const (
	MinLength = 4
	MaxLength = 16
)

// Options selects the password length and character classes.
type Options struct {
	Length    int  `json:"length" validate:"required,min=4,max=16" label:"Password length"`
	Lowercase bool `json:"lowercase"`
	Uppercase bool `json:"uppercase"`
	Numbers   bool `json:"numbers"`
	Symbols   bool `json:"symbols"`
}

// Charset returns the characters the options allow, in class order.
func (o Options) Charset() string {
	var b strings.Builder
	if o.Lowercase {
		b.WriteString(LowercaseChars)
	}
	if o.Uppercase {
		b.WriteString(UppercaseChars)
	}
	if o.Numbers {
		b.WriteString(NumberChars)
	}
	if o.Symbols {
		b.WriteString(SymbolChars)
	}
	return b.String()
}

// Generate returns a password of opts.Length characters drawn uniformly from
// the selected classes.
func Generate(opts Options) (string, error) {
	if err := validator.Validate(opts); err != nil {
		return "", err
	}

	charset := opts.Charset()
	if charset == "" {
		return "", apperrors.InvalidInput("select at least one character type")
	}

	limit := big.NewInt(int64(len(charset)))
	out := make([]byte, opts.Length)
	for i := range out {
		n, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", fmt.Errorf("read random index: %w", err)
		}
		out[i] = charset[n.Int64()]
	}
	return string(out), nil
}
