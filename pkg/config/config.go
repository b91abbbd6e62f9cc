package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata" // zone names must resolve in minimal containers

	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

//go:generate sh -c "go run ../../cmd/newscast --schema > schema.json"

// errors returned by Validate for missing mandatory credentials
var (
	ErrMissingToken   = errors.New("telegram bot token is required")
	ErrMissingChannel = errors.New("telegram channel id is required")
)

// Config holds the application configuration
type Config struct {
	Server struct {
		Listen  string        `yaml:"listen" json:"listen" jsonschema:"default=:10000,description=HTTP server listen address"`
		Timeout time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=30s,description=HTTP server timeout"`
	} `yaml:"server" json:"server" jsonschema:"description=Server configuration"`

	Telegram TelegramConfig `yaml:"telegram" json:"telegram" jsonschema:"description=Telegram bot and channel"`
	Feeds    FeedsConfig    `yaml:"feeds" json:"feeds" jsonschema:"description=Feed sources"`
	Schedule ScheduleConfig `yaml:"schedule" json:"schedule" jsonschema:"description=Delivery schedule and daily briefs"`
	Dedup    DedupConfig    `yaml:"dedup" json:"dedup" jsonschema:"description=Duplicate suppression"`
	LLM      LLMConfig      `yaml:"llm" json:"llm" jsonschema:"description=Summary backends"`
	Format   FormatConfig   `yaml:"format" json:"format" jsonschema:"description=Message rendering"`

	Extraction ExtractionConfig `yaml:"extraction" json:"extraction" jsonschema:"description=Article text extraction for entries without a description"`

	Store struct {
		DSN string `yaml:"dsn" json:"dsn" jsonschema:"description=SQLite DSN of the delivery journal, empty keeps history in memory"`
	} `yaml:"store" json:"store" jsonschema:"description=Delivery journal"`
}

// TelegramConfig holds bot credentials and the admin principals
type TelegramConfig struct {
	Token         string        `yaml:"token" json:"token" jsonschema:"description=Bot API token"`
	Channel       string        `yaml:"channel" json:"channel" jsonschema:"description=Target channel id or @username"`
	Owner         int64         `yaml:"owner" json:"owner" jsonschema:"description=Owner user id, always an admin and receives the startup message"`
	Admins        []int64       `yaml:"admins" json:"admins" jsonschema:"description=Additional admin user ids"`
	APIURL        string        `yaml:"api_url" json:"api_url" jsonschema:"default=https://api.telegram.org,description=Bot API base URL"`
	Timeout       time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=30s,description=Bot API request timeout"`
	WebhookURL    string        `yaml:"webhook_url" json:"webhook_url" jsonschema:"description=Public webhook URL registered at startup"`
	WebhookSecret string        `yaml:"webhook_secret" json:"webhook_secret" jsonschema:"description=Secret token expected in X-Telegram-Bot-Api-Secret-Token"`
}

// FeedsConfig lists feed sources and fetch limits
type FeedsConfig struct {
	URLs         []string      `yaml:"urls" json:"urls" jsonschema:"description=RSS/Atom feed URLs"`
	PerFeedLimit int           `yaml:"per_feed_limit" json:"per_feed_limit" jsonschema:"default=10,description=Entries taken from each feed per cycle"`
	Timeout      time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=20s,description=Per-feed fetch timeout"`
	MaxWorkers   int           `yaml:"max_workers" json:"max_workers" jsonschema:"default=4,description=Feeds fetched concurrently"`
	UserAgent    string        `yaml:"user_agent" json:"user_agent" jsonschema:"default=Newscast/1.0,description=User agent for feed requests"`
}

// ScheduleConfig controls the delivery loop and daily briefs
type ScheduleConfig struct {
	Interval          time.Duration `yaml:"interval" json:"interval" jsonschema:"default=30m,description=Default delivery interval"`
	MinInterval       time.Duration `yaml:"min_interval" json:"min_interval" jsonschema:"default=5m,description=Lowest interval accepted from admins"`
	MaxInterval       time.Duration `yaml:"max_interval" json:"max_interval" jsonschema:"default=180m,description=Highest interval accepted from admins"`
	Tick              time.Duration `yaml:"tick" json:"tick" jsonschema:"default=10s,description=Scheduler polling period"`
	ItemsPerRun       int           `yaml:"items_per_run" json:"items_per_run" jsonschema:"default=5,description=Entries delivered per scheduled cycle"`
	AdminPostItems    int           `yaml:"admin_post_items" json:"admin_post_items" jsonschema:"default=3,description=Entries delivered by the admin post command"`
	SendDelay         time.Duration `yaml:"send_delay" json:"send_delay" jsonschema:"default=2s,description=Pause between consecutive channel posts"`
	CycleTimeout      time.Duration `yaml:"cycle_timeout" json:"cycle_timeout" jsonschema:"default=5m,description=Deadline of one delivery cycle"`
	Timezone          string        `yaml:"timezone" json:"timezone" jsonschema:"default=Asia/Kolkata,description=Zone used for briefs and timestamps"`
	Briefs            []BriefConfig `yaml:"briefs" json:"briefs" jsonschema:"description=Daily broadcasts"`
	KeepAliveURL      string        `yaml:"keepalive_url" json:"keepalive_url" jsonschema:"description=URL pinged periodically to keep the host awake"`
	KeepAliveInterval time.Duration `yaml:"keepalive_interval" json:"keepalive_interval" jsonschema:"default=5m,description=Keep-alive ping period"`
}

// BriefConfig describes one daily broadcast
type BriefConfig struct {
	Name     string        `yaml:"name" json:"name" jsonschema:"required,description=Brief name, used in logs"`
	Spec     string        `yaml:"spec" json:"spec" jsonschema:"required,description=Cron expression of the daily fire time"`
	Window   time.Duration `yaml:"window" json:"window" jsonschema:"default=1h,description=How long after the fire time the brief may still be sent"`
	Kind     string        `yaml:"kind" json:"kind" jsonschema:"enum=brief,enum=poll,default=brief"`
	Title    string        `yaml:"title" json:"title"`
	Body     string        `yaml:"body" json:"body"`
	Question string        `yaml:"question" json:"question"`
	Options  []string      `yaml:"options" json:"options"`
}

// DedupConfig controls the ledger
type DedupConfig struct {
	Fuzzy        bool    `yaml:"fuzzy" json:"fuzzy" jsonschema:"default=true,description=Suppress near-duplicate titles"`
	Threshold    float64 `yaml:"threshold" json:"threshold" jsonschema:"default=0.9,minimum=0,maximum=1,description=Title similarity ratio treated as duplicate"`
	RecentTitles int     `yaml:"recent_titles" json:"recent_titles" jsonschema:"default=100,description=Number of recent titles compared"`
	MaxIDs       int     `yaml:"max_ids" json:"max_ids" jsonschema:"default=0,description=Evict oldest ids above this count, 0 keeps all"`
}

// LLMConfig holds summary settings shared by all backends
type LLMConfig struct {
	Language        string        `yaml:"language" json:"language" jsonschema:"default=English,description=Summary language"`
	SystemPrompt    string        `yaml:"system_prompt" json:"system_prompt" jsonschema:"description=System prompt override"`
	Temperature     float64       `yaml:"temperature" json:"temperature" jsonschema:"default=0.5"`
	MaxTokens       int           `yaml:"max_tokens" json:"max_tokens" jsonschema:"default=220"`
	Timeout         time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=25s,description=Per-backend request timeout"`
	DefaultHashtags string        `yaml:"default_hashtags" json:"default_hashtags" jsonschema:"default=#WorldNews #Breaking #Update"`
	FallbackNote    string        `yaml:"fallback_note" json:"fallback_note" jsonschema:"description=Sentence appended to summaries built without AI"`

	OpenAI   BackendConfig `yaml:"openai" json:"openai"`
	DeepSeek BackendConfig `yaml:"deepseek" json:"deepseek"`
	Gemini   BackendConfig `yaml:"gemini" json:"gemini"`
}

// BackendConfig holds credentials of one AI backend, a backend without key is skipped
type BackendConfig struct {
	APIKey   string `yaml:"api_key" json:"api_key"`
	Endpoint string `yaml:"endpoint" json:"endpoint" jsonschema:"description=OpenAI-compatible base URL"`
	Model    string `yaml:"model" json:"model"`
}

// FormatConfig holds the static parts of channel messages
type FormatConfig struct {
	Header        string `yaml:"header" json:"header" jsonschema:"default=International Breaking News"`
	DefaultTitle  string `yaml:"default_title" json:"default_title" jsonschema:"default=Breaking News"`
	Footer        string `yaml:"footer" json:"footer"`
	ReadMoreLabel string `yaml:"read_more_label" json:"read_more_label" jsonschema:"default=Read more"`
	FullStory     string `yaml:"full_story_label" json:"full_story_label" jsonschema:"default=Full Story"`
	JoinLabel     string `yaml:"join_label" json:"join_label" jsonschema:"default=Join Updates Channel"`
	JoinURL       string `yaml:"join_url" json:"join_url"`
	BotName       string `yaml:"bot_name" json:"bot_name" jsonschema:"default=Newscast"`
	ShortLinks    bool   `yaml:"short_links" json:"short_links" jsonschema:"default=false,description=Shorten article links with TinyURL"`
}

// ExtractionConfig holds content extraction settings
type ExtractionConfig struct {
	Enabled       bool          `yaml:"enabled" json:"enabled" jsonschema:"default=false,description=Enable content extraction"`
	Timeout       time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=15s,description=Extraction timeout per article"`
	MinTextLength int           `yaml:"min_text_length" json:"min_text_length" jsonschema:"default=80,description=Descriptions shorter than this trigger extraction"`
	UserAgent     string        `yaml:"user_agent" json:"user_agent" jsonschema:"default=Newscast/1.0,description=User agent for HTTP requests"`
}

var defaultFeeds = []string{
	"https://news.google.com/rss?hl=en-IN&gl=IN&ceid=IN:en",
	"https://feeds.reuters.com/reuters/worldNews",
	"https://feeds.bbci.co.uk/news/world/rss.xml",
}

// Load reads configuration from a YAML file and applies defaults.
// Credentials may still come from flags, so Validate is called separately.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // file path comes from CLI flag
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	// expand environment variables
	expanded := os.ExpandEnv(string(data))

	// opt-out flags are preset, yaml keeps them when the key is absent
	var cfg Config
	cfg.Dedup.Fuzzy = true
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.setDefaults()
	return &cfg, nil
}

// Default returns a configuration with built-in feeds and defaults, used when no file is given
func Default() *Config {
	cfg := &Config{}
	cfg.Dedup.Fuzzy = true
	cfg.setDefaults()
	return cfg
}

func (c *Config) setDefaults() {
	if c.Server.Listen == "" {
		c.Server.Listen = ":10000"
	}
	if c.Server.Timeout == 0 {
		c.Server.Timeout = 30 * time.Second
	}

	if c.Telegram.APIURL == "" {
		c.Telegram.APIURL = "https://api.telegram.org"
	}
	if c.Telegram.Timeout == 0 {
		c.Telegram.Timeout = 30 * time.Second
	}

	if len(c.Feeds.URLs) == 0 {
		c.Feeds.URLs = append([]string(nil), defaultFeeds...)
	}
	if c.Feeds.PerFeedLimit == 0 {
		c.Feeds.PerFeedLimit = 10
	}
	if c.Feeds.Timeout == 0 {
		c.Feeds.Timeout = 20 * time.Second
	}
	if c.Feeds.MaxWorkers == 0 {
		c.Feeds.MaxWorkers = 4
	}
	if c.Feeds.UserAgent == "" {
		c.Feeds.UserAgent = "Newscast/1.0"
	}

	c.setScheduleDefaults()

	if c.Dedup.Threshold == 0 {
		c.Dedup.Threshold = 0.9
	}
	if c.Dedup.RecentTitles == 0 {
		c.Dedup.RecentTitles = 100
	}

	if c.LLM.Language == "" {
		c.LLM.Language = "English"
	}
	if c.LLM.Temperature == 0 {
		c.LLM.Temperature = 0.5
	}
	if c.LLM.MaxTokens == 0 {
		c.LLM.MaxTokens = 220
	}
	if c.LLM.Timeout == 0 {
		c.LLM.Timeout = 25 * time.Second
	}
	if c.LLM.DefaultHashtags == "" {
		c.LLM.DefaultHashtags = "#WorldNews #Breaking #Update"
	}
	if c.LLM.FallbackNote == "" {
		c.LLM.FallbackNote = "Follow the link below for the full story."
	}
	if c.LLM.OpenAI.Model == "" {
		c.LLM.OpenAI.Model = "gpt-4.1-mini"
	}
	if c.LLM.DeepSeek.Model == "" {
		c.LLM.DeepSeek.Model = "deepseek-chat"
	}
	if c.LLM.DeepSeek.Endpoint == "" {
		c.LLM.DeepSeek.Endpoint = "https://api.deepseek.com/v1"
	}
	if c.LLM.Gemini.Model == "" {
		c.LLM.Gemini.Model = "gemini-1.5-flash"
	}

	if c.Format.Header == "" {
		c.Format.Header = "International Breaking News"
	}
	if c.Format.DefaultTitle == "" {
		c.Format.DefaultTitle = "Breaking News"
	}
	if c.Format.ReadMoreLabel == "" {
		c.Format.ReadMoreLabel = "Read more"
	}
	if c.Format.FullStory == "" {
		c.Format.FullStory = "Full Story"
	}
	if c.Format.JoinLabel == "" {
		c.Format.JoinLabel = "Join Updates Channel"
	}
	if c.Format.BotName == "" {
		c.Format.BotName = "Newscast"
	}

	if c.Extraction.Timeout == 0 {
		c.Extraction.Timeout = 15 * time.Second
	}
	if c.Extraction.MinTextLength == 0 {
		c.Extraction.MinTextLength = 80
	}
	if c.Extraction.UserAgent == "" {
		c.Extraction.UserAgent = "Newscast/1.0"
	}
}

func (c *Config) setScheduleDefaults() {
	s := &c.Schedule
	if s.Interval == 0 {
		s.Interval = 30 * time.Minute
	}
	if s.MinInterval == 0 {
		s.MinInterval = 5 * time.Minute
	}
	if s.MaxInterval == 0 {
		s.MaxInterval = 180 * time.Minute
	}
	if s.Tick == 0 {
		s.Tick = 10 * time.Second
	}
	if s.ItemsPerRun == 0 {
		s.ItemsPerRun = 5
	}
	if s.AdminPostItems == 0 {
		s.AdminPostItems = 3
	}
	if s.SendDelay == 0 {
		s.SendDelay = 2 * time.Second
	}
	if s.CycleTimeout == 0 {
		s.CycleTimeout = 5 * time.Minute
	}
	if s.Timezone == "" {
		s.Timezone = "Asia/Kolkata"
	}
	if s.KeepAliveInterval == 0 {
		s.KeepAliveInterval = 5 * time.Minute
	}
	if s.Briefs == nil {
		s.Briefs = []BriefConfig{
			{
				Name:  "morning",
				Spec:  "0 9 * * *",
				Title: "🌅 Morning Global Brief",
				Body:  "Good morning! Fresh international updates with short summaries arrive here throughout the day.",
			},
			{
				Name:  "night",
				Spec:  "0 22 * * *",
				Title: "🌙 Night Global Brief",
				Body:  "Good night! Today's key international stories are posted. Updates resume tomorrow.",
			},
		}
	}
	for i := range s.Briefs {
		if s.Briefs[i].Window == 0 {
			s.Briefs[i].Window = time.Hour
		}
		if s.Briefs[i].Kind == "" {
			s.Briefs[i].Kind = "brief"
		}
	}
}

// Validate checks configuration for correctness, missing credentials are reported first
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Telegram.Token) == "" {
		return ErrMissingToken
	}
	if strings.TrimSpace(c.Telegram.Channel) == "" {
		return ErrMissingChannel
	}

	if len(c.Feeds.URLs) == 0 {
		return errors.New("at least one feed url is required")
	}
	if c.Feeds.PerFeedLimit < 1 {
		return errors.New("feeds.per_feed_limit must be at least 1")
	}

	s := c.Schedule
	if s.MinInterval <= 0 || s.MaxInterval < s.MinInterval {
		return fmt.Errorf("invalid interval bounds %v..%v", s.MinInterval, s.MaxInterval)
	}
	if s.Interval < s.MinInterval || s.Interval > s.MaxInterval {
		return fmt.Errorf("schedule.interval %v is outside %v..%v", s.Interval, s.MinInterval, s.MaxInterval)
	}
	if s.ItemsPerRun < 1 || s.AdminPostItems < 1 {
		return errors.New("items per run must be at least 1")
	}
	if _, err := time.LoadLocation(s.Timezone); err != nil {
		return fmt.Errorf("load timezone %q: %w", s.Timezone, err)
	}
	for _, b := range s.Briefs {
		if _, err := cron.ParseStandard(b.Spec); err != nil {
			return fmt.Errorf("brief %q has invalid spec %q: %w", b.Name, b.Spec, err)
		}
		switch b.Kind {
		case "brief":
		case "poll":
			if b.Question == "" || len(b.Options) < 2 {
				return fmt.Errorf("poll brief %q needs a question and at least two options", b.Name)
			}
		default:
			return fmt.Errorf("brief %q has unknown kind %q", b.Name, b.Kind)
		}
	}

	if c.Dedup.Threshold <= 0 || c.Dedup.Threshold > 1 {
		return errors.New("dedup.threshold must be in (0, 1]")
	}
	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		return errors.New("llm.temperature must be between 0 and 2")
	}
	if c.Server.Timeout < time.Second {
		return errors.New("server timeout must be at least 1 second")
	}
	return nil
}

// AdminIDs returns the admin set, the owner is always included
func (c *Config) AdminIDs() []int64 {
	res := make([]int64, 0, len(c.Telegram.Admins)+1)
	seen := map[int64]bool{}
	for _, id := range append([]int64{c.Telegram.Owner}, c.Telegram.Admins...) {
		if id == 0 || seen[id] {
			continue
		}
		seen[id] = true
		res = append(res, id)
	}
	return res
}

var idsSplitter = regexp.MustCompile(`[,\s]+`)

// ParseAdminIDs parses a comma or whitespace separated id list, invalid parts are skipped
func ParseAdminIDs(raw string) []int64 {
	var res []int64
	for _, part := range idsSplitter.Split(strings.TrimSpace(raw), -1) {
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			continue
		}
		res = append(res, id)
	}
	return res
}
