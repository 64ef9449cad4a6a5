// roof-mri-backend/internal/token/token.go

// Package token генерирует короткие URL-безопасные идентификаторы предложений.
// Токен одновременно служит секретом доступа, поэтому единственный допустимый
// источник — криптографический ГСЧ. Никаких fallback на math/rand.
package token

import (
	"crypto/rand"
	"log/slog"
	"os"
)

// Length — фиксированная длина токена. 14 символов алфавита из 64 знаков
// дают 84 бита энтропии: на десятках тысяч предложений коллизии
// практически недостижимы, а подбор ссылки перебором бессмыслен.
const Length = 14

const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_"

// New возвращает новый случайный идентификатор.
// Если источник случайности недоступен, работать дальше нельзя.
func New() string {
	var buf [Length]byte
	if _, err := rand.Read(buf[:]); err != nil {
		slog.Error("Критическая ошибка: источник случайности недоступен", "error", err)
		os.Exit(1)
	}
	for i := range buf {
		buf[i] = alphabet[int(buf[i])&63]
	}
	return string(buf[:])
}
