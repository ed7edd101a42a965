package chat

// Config окно истории и статичные ответы аватара
type Config struct {
	HistoryLimit      int    `envconfig:"HISTORY_LIMIT" default:"10"`
	SessionBuffer     int    `envconfig:"SESSION_BUFFER" default:"16"`
	EmptyReply        string `envconfig:"EMPTY_REPLY" default:"I'm here, just gathering my thoughts..."`
	FailureReply      string `envconfig:"FAILURE_REPLY" default:"Sorry, I'm having trouble connecting right now. Can you try again?"`
	ImageLimitReply   string `envconfig:"IMAGE_LIMIT_REPLY" default:"I'd love to share a photo, but you've reached your daily image limit. Upgrade to get more!"`
	MessageLimitReply string `envconfig:"MESSAGE_LIMIT_REPLY" default:"Daily message limit reached. Please upgrade your subscription."`
}

// DefaultConfig значения по умолчанию, как в envconfig
func DefaultConfig() Config {
	return Config{
		HistoryLimit:      10,
		SessionBuffer:     16,
		EmptyReply:        "I'm here, just gathering my thoughts...",
		FailureReply:      "Sorry, I'm having trouble connecting right now. Can you try again?",
		ImageLimitReply:   "I'd love to share a photo, but you've reached your daily image limit. Upgrade to get more!",
		MessageLimitReply: "Daily message limit reached. Please upgrade your subscription.",
	}
}
