package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config captures the full runtime configuration for the historyshorts pipeline.
type Config struct {
	App     AppConfig
	OpenAI  OpenAIConfig
	Events  EventsConfig
	Video   VideoConfig
	YouTube YouTubeConfig
	Kafka   KafkaConfig
	Archive ArchiveConfig
	Tracing TracingConfig
}

type AppConfig struct {
	Name        string `env:"APP_NAME" envDefault:"historyshorts"`
	Environment string `env:"APP_ENV" envDefault:"development"`
	Version     string `env:"APP_VERSION" envDefault:"0.1.0"`
	LogLevel    string `env:"APP_LOG_LEVEL" envDefault:"info"`
}

type OpenAIConfig struct {
	APIKey             string        `env:"OPENAI_API_KEY"`
	CompletionModel    string        `env:"OPENAI_COMPLETION_MODEL" envDefault:"gpt-4o"`
	TTSModel           string        `env:"OPENAI_TTS_MODEL" envDefault:"tts-1"`
	TranscriptionModel string        `env:"OPENAI_TRANSCRIPTION_MODEL" envDefault:"whisper-1"`
	ImageModel         string        `env:"OPENAI_IMAGE_MODEL" envDefault:"dall-e-3"`
	ImageSize          string        `env:"OPENAI_IMAGE_SIZE" envDefault:"1024x1024"`
	RequestTimeout     time.Duration `env:"OPENAI_REQUEST_TIMEOUT" envDefault:"60s"`
	MaxRetries         uint          `env:"OPENAI_MAX_RETRIES" envDefault:"3"`
}

type EventsConfig struct {
	Dir        string `env:"EVENTS_DIR" envDefault:"videos"`
	NumEvents  int    `env:"EVENTS_PER_DAY" envDefault:"2"`
	WordsCount int    `env:"EVENTS_WORDS_COUNT" envDefault:"30"`
	MaxImages  int    `env:"EVENTS_MAX_IMAGES" envDefault:"5"`
}

type VideoConfig struct {
	Width      int    `env:"VIDEO_WIDTH" envDefault:"1080"`
	Height     int    `env:"VIDEO_HEIGHT" envDefault:"1920"`
	FPS        int    `env:"VIDEO_FPS" envDefault:"30"`
	FontSize   int    `env:"VIDEO_FONT_SIZE" envDefault:"50"`
	Preset     string `env:"VIDEO_X264_PRESET" envDefault:"ultrafast"`
	FFmpegBin  string `env:"FFMPEG_BIN" envDefault:"ffmpeg"`
	FFprobeBin string `env:"FFPROBE_BIN" envDefault:"ffprobe"`
}

type YouTubeConfig struct {
	ClientSecretFile  string   `env:"YOUTUBE_CLIENT_SECRET_FILE" envDefault:"client_secret.json"`
	TokenFile         string   `env:"YOUTUBE_TOKEN_FILE" envDefault:"token.json"`
	CallbackAddr      string   `env:"YOUTUBE_OAUTH_CALLBACK_ADDR" envDefault:"localhost:8090"`
	CategoryID        string   `env:"YOUTUBE_VIDEO_CATEGORY" envDefault:"27"`
	ChannelID         string   `env:"YOUTUBE_CHANNEL_ID"`
	ChannelTitle      string   `env:"YOUTUBE_CHANNEL_TITLE"`
	MadeForKids       bool     `env:"YOUTUBE_MADE_FOR_KIDS" envDefault:"false"`
	PrivacyStatus     string   `env:"YOUTUBE_PRIVACY_STATUS" envDefault:"private"`
	TitlePrefix       string   `env:"YOUTUBE_TITLE_PREFIX" envDefault:"Today in history:"`
	DescriptionSuffix string   `env:"YOUTUBE_DESCRIPTION_SUFFIX" envDefault:"♥ Generated by AI ♥"`
	DefaultLanguage   string   `env:"YOUTUBE_DEFAULT_LANGUAGE" envDefault:"en"`
	DefaultTags       []string `env:"YOUTUBE_DEFAULT_TAGS" envSeparator:"," envDefault:"history,shorts,today"`
	Scopes            []string `env:"YOUTUBE_OAUTH_SCOPES" envSeparator:"," envDefault:"https://www.googleapis.com/auth/youtube.upload"`
}

type KafkaConfig struct {
	Enabled       bool          `env:"KAFKA_ENABLED" envDefault:"false"`
	Brokers       []string      `env:"KAFKA_BROKERS" envSeparator:"," envDefault:"localhost:9092"`
	PipelineTopic string        `env:"KAFKA_PIPELINE_TOPIC" envDefault:"historyshorts.pipeline"`
	Retries       int           `env:"KAFKA_RETRIES" envDefault:"3"`
	BatchSize     int           `env:"KAFKA_BATCH_SIZE" envDefault:"100"`
	BatchTimeout  time.Duration `env:"KAFKA_BATCH_TIMEOUT" envDefault:"1s"`
	Compression   string        `env:"KAFKA_COMPRESSION_CODEC" envDefault:"snappy"`
}

type ArchiveConfig struct {
	Enabled   bool   `env:"ARCHIVE_ENABLED" envDefault:"false"`
	Provider  string `env:"ARCHIVE_PROVIDER" envDefault:"minio"`
	Endpoint  string `env:"ARCHIVE_ENDPOINT" envDefault:"localhost:9000"`
	Region    string `env:"ARCHIVE_REGION" envDefault:"us-east-1"`
	Bucket    string `env:"ARCHIVE_BUCKET" envDefault:"historyshorts-rendered"`
	AccessKey string `env:"ARCHIVE_ACCESS_KEY" envDefault:"minioadmin"`
	SecretKey string `env:"ARCHIVE_SECRET_KEY" envDefault:"minioadmin"`
	UseSSL    bool   `env:"ARCHIVE_USE_SSL" envDefault:"false"`
}

type TracingConfig struct {
	Endpoint    string  `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	Insecure    bool    `env:"OTEL_EXPORTER_OTLP_INSECURE" envDefault:"true"`
	SampleRatio float64 `env:"OTEL_TRACES_SAMPLER_RATIO" envDefault:"1.0"`
}

// Load reads an optional .env file and parses environment variables into Config.
func Load() (*Config, error) {
	// Missing .env is fine; explicit environment always wins.
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	if cfg.OpenAI.APIKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is required")
	}

	return cfg, nil
}
