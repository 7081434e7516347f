package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

// AppConfig собирает все настройки сервиса из переменных окружения.
type AppConfig struct {
	AppEnv  string `envconfig:"APP_ENV" default:"dev"`
	Port    int    `envconfig:"PORT" default:"8080"`
	BaseURL string `envconfig:"BASE_URL" default:"https://v2u.us"`

	MetricsAddr string `envconfig:"METRICS_ADDR" default:":9090"`

	RedisAddr string `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	PGDSN     string `envconfig:"PG_DSN"`
	RabbitURL string `envconfig:"RABBITMQ_URL"`

	ScheduleHour int           `envconfig:"SCHEDULE_HOUR" default:"4"`
	FetchTimeout time.Duration `envconfig:"FETCH_TIMEOUT" default:"20s"`

	Sources struct {
		TechCrunchFeed  string   `envconfig:"TECHCRUNCH_FEED_URL" default:"https://techcrunch.com/feed/"`
		VentureBeatFeed string   `envconfig:"VENTUREBEAT_FEED_URL" default:"https://venturebeat.com/feed/"`
		RedditBaseURL   string   `envconfig:"REDDIT_BASE_URL" default:"https://www.reddit.com"`
		Subreddits      []string `envconfig:"REDDIT_SUBREDDITS" default:"artificial,MachineLearning,OpenAI"`
		HackerNewsBase  string   `envconfig:"HACKERNEWS_BASE_URL" default:"https://hacker-news.firebaseio.com"`
		ArxivQueryURL   string   `envconfig:"ARXIV_QUERY_URL" default:"http://export.arxiv.org/api/query?search_query=cat:cs.AI+OR+cat:cs.LG&sortBy=submittedDate&sortOrder=descending&max_results=10"`
	}

	Limits struct {
		FeedStories       int `envconfig:"FEED_MAX_STORIES" default:"8"`
		RedditStories     int `envconfig:"REDDIT_MAX_STORIES" default:"12"`
		HackerNewsStories int `envconfig:"HACKERNEWS_MAX_STORIES" default:"10"`
		ArxivStories      int `envconfig:"ARXIV_MAX_STORIES" default:"8"`
		RunHistory        int `envconfig:"RUN_HISTORY_LIMIT" default:"100"`
		LogHistory        int `envconfig:"LOG_HISTORY_LIMIT" default:"1000"`
	}

	Email struct {
		ResendAPIKey string `envconfig:"RESEND_API_KEY"`
		From         string `envconfig:"EMAIL_FROM" default:"AI-Now Bot <automation@v2u.us>"`
		To           string `envconfig:"EMAIL_TO"`
	}

	Telegram struct {
		BotToken string `envconfig:"TG_BOT_TOKEN"`
		ChatID   int64  `envconfig:"TG_CHAT_ID"`
	}

	Social struct {
		Platforms []string `envconfig:"SOCIAL_PLATFORMS" default:"twitter,bluesky,linkedin"`
	}

	Queues struct {
		Notify string `envconfig:"NOTIFY_QUEUE_KEY" default:"notify_jobs"`
	}
}

// Load читает конфигурацию из окружения.
func Load() (AppConfig, error) {
	var cfg AppConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return AppConfig{}, err
	}
	return cfg, nil
}
