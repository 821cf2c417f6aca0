package utils

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	apperrors "itdesk/pkg/errors"
)

// PasswordCost - стоимость bcrypt для паролей админов, общая для сидера и CLI hash-password.
const PasswordCost = bcrypt.DefaultCost

// HashPassword возвращает bcrypt-хеш для колонки admins.password.
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", apperrors.NewBadRequestError("Пароль не может быть пустым")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), PasswordCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", apperrors.NewBadRequestError("Пароль длиннее 72 байт")
	}
	if err != nil {
		return "", fmt.Errorf("не удалось хешировать пароль: %w", err)
	}
	return string(hash), nil
}

// PasswordMatches сверяет пароль из формы входа с хешем админа.
// Битый хеш в БД считается несовпадением.
func PasswordMatches(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
