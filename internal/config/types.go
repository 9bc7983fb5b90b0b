package config

// Config holds all configuration for the application.
type Config struct {
	DBName        string
	Port          string
	DefaultTarget int
	Slack         SlackConfig
	Turso         TursoConfig
	ProjectID     string
	RedisURL      string
	Log           LogConfig
}
type SlackConfig struct {
	Token         string
	ChannelID     string
	SigningSecret string
}
type TursoConfig struct {
	PrimaryURL string
	AuthToken  string
}
type LogConfig struct {
	Level  string
	Format string
}
