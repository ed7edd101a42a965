package kafka

import "context"

// MessageHandler обработчик сообщений одного топика.
// BusinessError означает невалидное сообщение: consumer коммитит его и идёт дальше,
// любая другая ошибка оставляет offset на месте
type MessageHandler interface {
	HandleMessage(ctx context.Context, key string, value []byte) error
}
