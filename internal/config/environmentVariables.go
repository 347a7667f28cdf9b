package config

import (
	"log/slog"
	"time"
)

type traceKey string

const (
	IS_PROD                         = false
	LOG_LEVEL_PROD                  = slog.LevelInfo
	FALLBACK_REDIS_TO_INTERNALSTORE = true //if redis init fails, state lives in the process-local substrate
	TRACE_ID_KEY           traceKey = "traceId"
	RATE_LIMIT_PER_SECOND           = 2
	BURST_RATE_LIMIT_PER_SECOND     = 5
	RATE_LIMIT_IDLE_EXPIRY          = 10 * time.Minute //a client quiet this long loses its bucket

	//persistence schema - bump when a record layout changes, older entries get dropped on load
	SchemaVersion = 2

	//substrate keys, one per entity family plus config
	DocumentsKey = "docquery:documents"
	SessionsKey  = "docquery:sessions"
	ChatKey      = "docquery:chat"
	ConfigKey    = "docquery:config"

	ArtifactKeyPrefix = "artifact:"

	InterruptedParseError = "Parsing was interrupted before it finished. Please retry."
	GenericParseError     = "Parsing failed."
	DefaultSessionName    = "Untitled session"

	//worker pool
	RequestsPerNewWorkerCount int64 = 10
	MaxWorkerCount            int64 = 10
	MinWorkerCount            int64 = 1
	IdleWorkerTimeout               = 1 * time.Minute
	TaskBufferLimit                 = 100

	//serverTimeouts
	ReadTimeout            = 5 * time.Second
	WriteTimeout           = 60 * time.Second
	IdleTimeout            = 120 * time.Second
	ShutdownContextTimeout = 10 * time.Second

	//server listening port
	ServerListenAddr = ":3000"

	MaxUploadSize = 32 << 20 //32mb

	//extraction
	PageExtractTimeout = 10 * time.Second

	//analysis
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"

	DefaultProvider          = ProviderGemini
	GeminiModelName          = "gemini-2.5-flash-lite-preview-09-2025"
	OpenAIModelName          = "gpt-4o-mini"
	ModelTemperature float32 = 0.7
	ModelContext             = "You are a helpful assistant answering questions about a single document. Only use the document text you are given. If the document does not contain the answer, say you don't know."
	AnalysisTimeout          = 45 * time.Second

	//substrates
	SubstrateRedis  = "redis"
	SubstrateSqlite = "sqlite"
	SubstrateMemory = "memory"

	//redis
	redisHost = "127.0.0.1"
	redisPort = "6379"
	RedisAddr = redisHost + ":" + redisPort

	//redis has 16 DB we can use
	RedisStateStore    = 0
	RedisArtifactStore = 1

	RedisArtifactTTL = 7 * 24 * time.Hour
	RedisPingTimeout = 3 * time.Second

	SqlitePath = "docquery.db"
)

const (
	//analysis prompt limits
	MaxArtifactPromptRunes = 200_000
	MaxHistoryMessages     = 6
)

const (
	//outbound connection pool
	MaxIdleConns        = 20
	MaxIdleConnsPerHost = 10
	IdleConnTimeout     = 90 * time.Second
)
