package photo

import "math/rand/v2"

// Rand источник случайности для выбора картинки. *rand.Rand из math/rand/v2 подходит напрямую
type Rand interface {
	IntN(n int) int
}

// globalRand общий генератор math/rand/v2, безопасен для конкурентного использования
type globalRand struct{}

func (globalRand) IntN(n int) int {
	return rand.IntN(n)
}

// DefaultRand генератор для продакшена
func DefaultRand() Rand {
	return globalRand{}
}
