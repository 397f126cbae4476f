package tools

import (
	"context"
	"errors"

	"github.com/MeKo-Tech/pagekit/internal/batch"
	"github.com/MeKo-Tech/pagekit/internal/pdf"
)

// ErrPasswordRequired is returned when encrypt or decrypt gets no password.
var ErrPasswordRequired = errors.New("a password is required")

// Encrypt protects every document with creds and writes
// "<ts>_encrypted_<file>".
func Encrypt(creds pdf.PasswordCredentials, keyLength int) (batch.ProcessFunc, error) {
	if creds.UserPassword == "" {
		return nil, ErrPasswordRequired
	}
	if keyLength != pdf.KeyLength128 && keyLength != pdf.KeyLength256 {
		return nil, errors.New("key length must be 128 or 256")
	}

	return func(_ context.Context, doc batch.Document) (batch.Outcome, error) {
		out := doc.Naming.Prefixed(doc.Path, "encrypted")
		if err := pdf.Encrypt(doc.Path, out, creds, keyLength); err != nil {
			return batch.Outcome{}, err
		}
		doc.Logger.Debug("document encrypted", "key_length", keyLength,
			"owner_password", creds.OwnerPassword != "")
		return batch.Outcome{Outputs: []string{out}}, nil
	}, nil
}

// Decrypt removes the protection of every document and writes
// "<ts>_decrypted_<file>". Documents that are not encrypted are copied.
func Decrypt(password string) (batch.ProcessFunc, error) {
	if password == "" {
		return nil, ErrPasswordRequired
	}

	return func(_ context.Context, doc batch.Document) (batch.Outcome, error) {
		out := doc.Naming.Prefixed(doc.Path, "decrypted")
		decrypted, err := pdf.Decrypt(doc.Path, out, password)
		if err != nil {
			return batch.Outcome{}, err
		}
		if !decrypted {
			doc.Logger.Info("document is not encrypted, copied unchanged")
		}
		return batch.Outcome{Outputs: []string{out}}, nil
	}, nil
}
