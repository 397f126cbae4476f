package pdf

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// ErrWrongPassword is returned when an encrypted document cannot be opened
// with the supplied password.
var ErrWrongPassword = errors.New("wrong password for encrypted document")

// Supported AES key lengths in bits.
const (
	KeyLength128 = 128
	KeyLength256 = 256
)

// PasswordCredentials contains the passwords for a PDF file.
type PasswordCredentials struct {
	UserPassword  string `json:"user_password,omitempty"`
	OwnerPassword string `json:"owner_password,omitempty"`
}

// withOwnerFallback uses the user password as owner password when none is
// given, so a single password both opens and controls the document.
func (c PasswordCredentials) withOwnerFallback() PasswordCredentials {
	if c.OwnerPassword == "" {
		c.OwnerPassword = c.UserPassword
	}
	return c
}

// Encrypt writes an AES encrypted copy of in to out.
func Encrypt(in, out string, creds PasswordCredentials, keyLength int) error {
	if creds.UserPassword == "" && creds.OwnerPassword == "" {
		return errors.New("a password is required to encrypt")
	}
	if keyLength != KeyLength128 && keyLength != KeyLength256 {
		return fmt.Errorf("unsupported AES key length %d", keyLength)
	}

	creds = creds.withOwnerFallback()
	conf := model.NewAESConfiguration(creds.UserPassword, creds.OwnerPassword, keyLength)
	conf.ValidationMode = model.ValidationRelaxed

	if err := api.EncryptFile(in, out, conf); err != nil {
		return fmt.Errorf("failed to encrypt document: %w", err)
	}
	return nil
}

// IsEncrypted reports whether the document at path carries an encryption
// dictionary. A document that cannot be opened without a password counts as
// encrypted.
func IsEncrypted(path string) (bool, error) {
	ctx, err := readContext(path, NewConfiguration(Options{}))
	if err != nil {
		if IsPasswordError(err) {
			return true, nil
		}
		return false, fmt.Errorf("failed to check PDF encryption status: %w", err)
	}
	return ctx.Encrypt != nil, nil
}

// Decrypt writes a decrypted copy of in to out. An input that is not
// encrypted is copied through unchanged; the returned flag reports whether
// decryption took place.
func Decrypt(in, out, password string) (bool, error) {
	creds := PasswordCredentials{UserPassword: password}.withOwnerFallback()
	conf := NewConfiguration(Options{UserPassword: creds.UserPassword, OwnerPassword: creds.OwnerPassword})

	ctx, err := readContext(in, conf)
	if err != nil {
		if IsPasswordError(err) {
			return false, fmt.Errorf("%w: %w", ErrWrongPassword, err)
		}
		return false, err
	}

	if ctx.Encrypt == nil {
		if err := copyFile(in, out); err != nil {
			return false, fmt.Errorf("failed to copy unencrypted document: %w", err)
		}
		return false, nil
	}

	if err := api.DecryptFile(in, out, conf); err != nil {
		if IsPasswordError(err) {
			return false, fmt.Errorf("%w: %w", ErrWrongPassword, err)
		}
		return false, fmt.Errorf("failed to decrypt document: %w", err)
	}
	return true, nil
}

// IsPasswordError checks if an error is related to password/encryption issues.
func IsPasswordError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrWrongPassword) {
		return true
	}

	errStr := strings.ToLower(err.Error())
	passwordKeywords := []string{
		"password",
		"encrypted",
		"decrypt",
		"authentication",
		"unauthorized",
		"invalid credentials",
	}

	for _, keyword := range passwordKeywords {
		if strings.Contains(errStr, keyword) {
			return true
		}
	}

	return false
}
