package services

import (
	"echoverse/internal/crypto"
	"echoverse/internal/models"
)

// EncryptionService wraps the cipher with domain-specific methods. A nil
// *EncryptionService is valid and leaves values in plaintext, which keeps
// local development working without key material.
type EncryptionService struct {
	cipher *crypto.Cipher
}

// NewEncryptionService creates a new encryption service.
func NewEncryptionService(encryptionKey, blindIndexKey []byte) (*EncryptionService, error) {
	c, err := crypto.NewCipher(encryptionKey, blindIndexKey)
	if err != nil {
		return nil, err
	}
	return &EncryptionService{cipher: c}, nil
}

// EncryptUser encrypts sensitive user fields before storing in DB.
func (s *EncryptionService) EncryptUser(user *models.User) error {
	if s == nil {
		return nil
	}
	encrypted, err := s.cipher.Encrypt(user.Email)
	if err != nil {
		return err
	}
	user.EmailBlindIndex = s.cipher.BlindIndex(user.Email)
	user.Email = encrypted
	return nil
}

// DecryptUser decrypts sensitive user fields after retrieving from DB.
func (s *EncryptionService) DecryptUser(user *models.User) error {
	if s == nil {
		return nil
	}
	email, err := s.cipher.Decrypt(user.Email)
	if err != nil {
		return err
	}
	user.Email = email
	return nil
}

// EmailBlindIndex generates a blind index for email lookup.
func (s *EncryptionService) EmailBlindIndex(email string) string {
	if s == nil {
		return email
	}
	return s.cipher.BlindIndex(email)
}

// EncryptNote encrypts a journal note for at-rest storage.
func (s *EncryptionService) EncryptNote(note string) (string, error) {
	if s == nil {
		return note, nil
	}
	return s.cipher.Encrypt(note)
}

// DecryptNote reverses EncryptNote.
func (s *EncryptionService) DecryptNote(note string) (string, error) {
	if s == nil {
		return note, nil
	}
	return s.cipher.Decrypt(note)
}
