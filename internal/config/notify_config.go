package config

const (
	telegramBotTokenEnvVar = "TG_BOT_TOKEN"
	telegramChatIDEnvVar   = "TG_CHAT_ID"
)

// NotifyConfig configures where new leads are announced. Both values must
// be set for notifications to be sent.
type NotifyConfig interface {
	GetTelegramBotToken() string
	GetTelegramChatID() string
}

type Notify struct{}

var _ NotifyConfig = Notify{}

func (Notify) GetTelegramBotToken() string {
	return GetEnv(telegramBotTokenEnvVar, "")
}

func (Notify) GetTelegramChatID() string {
	return GetEnv(telegramChatIDEnvVar, "")
}
