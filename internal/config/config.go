package config

import (
	"log"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Port      string `mapstructure:"PORT"`
	MySQLDSN  string `mapstructure:"MYSQL_DSN"`
	RedisAddr string `mapstructure:"REDIS_ADDR"`
	RedisPass string `mapstructure:"REDIS_PASSWORD"`
	RedisDB   int    `mapstructure:"REDIS_DB"`

	JWTAccessSecret string `mapstructure:"JWT_ACCESS_SECRET"`

	// 管理端口令只保存 bcrypt 散列；留空则管理端全部拒绝（fail closed）
	AdminKeyHash string `mapstructure:"ADMIN_KEY_HASH"`

	AssetsBaseURL string `mapstructure:"ASSETS_BASE_URL"`

	KafkaBrokers string `mapstructure:"KAFKA_BROKERS"` // 逗号分隔
	KafkaTopic   string `mapstructure:"KAFKA_TOPIC"`

	SMTPHost       string `mapstructure:"SMTP_HOST"`
	SMTPPort       int    `mapstructure:"SMTP_PORT"`
	SMTPUsername   string `mapstructure:"SMTP_USERNAME"`
	SMTPPassword   string `mapstructure:"SMTP_PASSWORD"`
	SMTPFrom       string `mapstructure:"SMTP_FROM"`
	AdminAlertMail string `mapstructure:"ADMIN_ALERT_MAIL"`

	PostLimitBurst    int `mapstructure:"POST_LIMIT_BURST"`
	PostLimitDaily    int `mapstructure:"POST_LIMIT_DAILY"`
	CommentLimitBurst int `mapstructure:"COMMENT_LIMIT_BURST"`
	CommentLimitDaily int `mapstructure:"COMMENT_LIMIT_DAILY"`
	VoteLimitBurst    int `mapstructure:"VOTE_LIMIT_BURST"`
	VoteLimitDaily    int `mapstructure:"VOTE_LIMIT_DAILY"`
}

func (c *Config) KafkaBrokerList() []string {
	if c.KafkaBrokers == "" {
		return nil
	}
	return strings.Split(c.KafkaBrokers, ",")
}

func Load() *Config {
	viper.AddConfigPath(".")
	viper.SetConfigName("config")
	viper.SetConfigType("yml")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			log.Println("config file not found; using environment variables and defaults")
		} else {
			log.Fatalf("error reading config file: %s", err)
		}
	}

	viper.SetDefault("PORT", "8080")
	viper.SetDefault("MYSQL_DSN", "user:password@tcp(127.0.0.1:3306)/care_club?charset=utf8mb4&parseTime=True")
	viper.SetDefault("REDIS_ADDR", "127.0.0.1:6379")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("JWT_ACCESS_SECRET", "secret-key")
	viper.SetDefault("ASSETS_BASE_URL", "")
	viper.SetDefault("KAFKA_TOPIC", "care-club.moderation")
	viper.SetDefault("SMTP_PORT", 587)
	viper.SetDefault("POST_LIMIT_BURST", 3)
	viper.SetDefault("POST_LIMIT_DAILY", 5)
	viper.SetDefault("COMMENT_LIMIT_BURST", 10)
	viper.SetDefault("COMMENT_LIMIT_DAILY", 50)
	viper.SetDefault("VOTE_LIMIT_BURST", 30)
	viper.SetDefault("VOTE_LIMIT_DAILY", 200)

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		log.Fatalf("unable to decode config: %v", err)
	}
	return &cfg
}
