package conf

const (
	APP_NAME = "capsync"
	APP_DESC = "Model capability pricing sync"
)

// set with -ldflags "-X github.com/mikemajara/ai-chatbot/internal/conf.Version=..."
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
	Author    = "unknown"
	Repo      = "https://github.com/mikemajara/ai-chatbot"
)
