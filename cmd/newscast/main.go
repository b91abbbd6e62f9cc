package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/go-pkgz/lgr"
	"github.com/jessevdk/go-flags"

	"github.com/umputun/newscast/pkg/admin"
	"github.com/umputun/newscast/pkg/config"
	"github.com/umputun/newscast/pkg/content"
	"github.com/umputun/newscast/pkg/dedup"
	"github.com/umputun/newscast/pkg/feed"
	"github.com/umputun/newscast/pkg/format"
	"github.com/umputun/newscast/pkg/llm"
	"github.com/umputun/newscast/pkg/scheduler"
	"github.com/umputun/newscast/pkg/shortener"
	"github.com/umputun/newscast/pkg/store"
	"github.com/umputun/newscast/pkg/telegram"
	"github.com/umputun/newscast/server"
)

// Opts with all CLI options. Values set here override the config file.
type Opts struct {
	Config string `short:"c" long:"config" env:"CONFIG" description:"path to config file, built-in defaults if empty"`
	Port   int    `short:"p" long:"port" env:"PORT" description:"http port, overrides server.listen"`

	Token   string `long:"token" env:"TELEGRAM_BOT_TOKEN" description:"telegram bot token"`
	Channel string `long:"channel" env:"TELEGRAM_CHANNEL_ID" description:"target channel id or @username"`
	Owner   int64  `long:"owner" env:"OWNER_ID" description:"owner telegram user id"`
	Admins  string `long:"admins" env:"ADMIN_USER_IDS" description:"comma separated admin user ids"`
	Webhook string `long:"webhook-url" env:"WEBHOOK_URL" description:"public webhook url registered at startup"`

	OpenAI struct {
		APIKey string `long:"api-key" env:"API_KEY" description:"OpenAI API key"`
		Model  string `long:"model" env:"MODEL" description:"OpenAI model"`
	} `group:"openai" namespace:"openai" env-namespace:"OPENAI"`

	DeepSeek struct {
		APIKey string `long:"api-key" env:"API_KEY" description:"DeepSeek API key"`
		URL    string `long:"url" env:"API_URL" description:"DeepSeek API base url"`
		Model  string `long:"model" env:"MODEL" description:"DeepSeek model"`
	} `group:"deepseek" namespace:"deepseek" env-namespace:"DEEPSEEK"`

	Gemini struct {
		APIKey string `long:"api-key" env:"API_KEY" description:"Gemini API key"`
	} `group:"gemini" namespace:"gemini" env-namespace:"GEMINI"`

	SelfPingURL string `long:"self-ping" env:"SELF_PING_URL" description:"url pinged periodically to keep the host awake"`

	// Common options
	Debug   bool `long:"dbg" env:"DEBUG" description:"debug mode"`
	Version bool `short:"V" long:"version" description:"show version info"`
	Schema  bool `long:"schema" description:"print config json schema and exit"`
	NoColor bool `long:"no-color" env:"NO_COLOR" description:"disable color output"`
}

var revision = "unknown"

func main() {
	var opts Opts
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	if opts.Version {
		fmt.Printf("Version: %s\nGolang: %s\n", revision, runtime.Version())
		os.Exit(0)
	}

	if opts.Schema {
		data, err := config.Schema()
		if err != nil {
			fmt.Fprintf(os.Stderr, "can't generate schema: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(string(data))
		os.Exit(0)
	}

	setupLog(opts.Debug, opts.NoColor, opts.Token, opts.OpenAI.APIKey, opts.DeepSeek.APIKey, opts.Gemini.APIKey)
	lgr.Printf("[INFO] starting newscast version %s", revision)

	ctx, cancel := context.WithCancel(context.Background())

	// handle termination signals
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan
		lgr.Print("[INFO] termination signal received")
		cancel()
	}()

	err := run(ctx, opts)
	cancel()
	if err != nil {
		lgr.Printf("[ERROR] %v", err)
		os.Exit(1)
	}
	lgr.Print("[INFO] shutdown complete")
}

// run wires all components and blocks until ctx is canceled or the server fails
func run(ctx context.Context, opts Opts) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	// credentials may come from the file only, mask them as well
	setupLog(opts.Debug, opts.NoColor, configSecrets(cfg)...)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	loc, err := time.LoadLocation(cfg.Schedule.Timezone)
	if err != nil {
		return fmt.Errorf("load timezone: %w", err)
	}

	tg := telegram.New(telegram.Config{Token: cfg.Telegram.Token, APIURL: cfg.Telegram.APIURL, Timeout: cfg.Telegram.Timeout})

	summarizer, closeBackends := makeSummarizer(ctx, cfg)
	defer closeBackends()

	mem := scheduler.NewMemoryHistory(0)
	var history scheduler.History = mem
	var journal server.Journal = mem
	if cfg.Store.DSN != "" {
		j, err := store.New(ctx, store.Config{DSN: cfg.Store.DSN})
		if err != nil {
			return fmt.Errorf("open journal: %w", err)
		}
		defer j.Close()
		history, journal = j, j
		if st, err := j.Stats(ctx); err == nil {
			lgr.Printf("[INFO] delivery journal at %s, %d sent, %d failed", cfg.Store.DSN, st.Sent, st.Failed)
		}
	}

	var short scheduler.Shortener
	if cfg.Format.ShortLinks {
		short = shortener.NewTinyURL("", 5*time.Second)
	}
	var extractor scheduler.Extractor
	if cfg.Extraction.Enabled {
		extractor = content.NewHTTPExtractor(cfg.Extraction.Timeout, cfg.Extraction.UserAgent)
	}

	formatter := format.New(format.Options{
		Header:         cfg.Format.Header,
		DefaultTitle:   cfg.Format.DefaultTitle,
		Footer:         cfg.Format.Footer,
		ReadMoreLabel:  cfg.Format.ReadMoreLabel,
		FullStoryLabel: cfg.Format.FullStory,
		JoinLabel:      cfg.Format.JoinLabel,
		JoinURL:        cfg.Format.JoinURL,
		BotName:        cfg.Format.BotName,
		Location:       loc,
	})

	sched, err := scheduler.New(scheduler.Params{
		State:  scheduler.NewState(cfg.Schedule.Interval, cfg.Schedule.MinInterval, cfg.Schedule.MaxInterval),
		Ledger: dedup.New(dedup.Options{Fuzzy: cfg.Dedup.Fuzzy, Threshold: cfg.Dedup.Threshold, RecentTitles: cfg.Dedup.RecentTitles, MaxIDs: cfg.Dedup.MaxIDs}),
		Fetcher: feed.NewFetcher(feed.FetcherParams{
			Timeout:    cfg.Feeds.Timeout,
			UserAgent:  cfg.Feeds.UserAgent,
			PerFeed:    cfg.Feeds.PerFeedLimit,
			MaxWorkers: cfg.Feeds.MaxWorkers,
		}),
		Summarizer:        summarizer,
		Sender:            tg,
		Formatter:         formatter,
		Shortener:         short,
		Extractor:         extractor,
		History:           history,
		ExtractBelow:      cfg.Extraction.MinTextLength,
		Channel:           cfg.Telegram.Channel,
		Feeds:             cfg.Feeds.URLs,
		Tick:              cfg.Schedule.Tick,
		ItemsPerRun:       cfg.Schedule.ItemsPerRun,
		AdminPostItems:    cfg.Schedule.AdminPostItems,
		SendDelay:         cfg.Schedule.SendDelay,
		CycleTimeout:      cfg.Schedule.CycleTimeout,
		Location:          loc,
		Briefs:            briefParams(cfg.Schedule.Briefs),
		KeepAliveURL:      cfg.Schedule.KeepAliveURL,
		KeepAliveInterval: cfg.Schedule.KeepAliveInterval,
	})
	if err != nil {
		return fmt.Errorf("make scheduler: %w", err)
	}

	interpreter := admin.New(admin.Params{Controller: sched, Replier: tg, Formatter: formatter, Admins: cfg.AdminIDs()})

	srv := server.New(server.Params{
		Listen:        cfg.Server.Listen,
		Timeout:       cfg.Server.Timeout,
		WebhookSecret: cfg.Telegram.WebhookSecret,
		Version:       revision,
		Debug:         opts.Debug,
		Commands:      interpreter,
		Callbacks:     tg,
		Status:        sched,
		Journal:       journal,
	})

	if cfg.Telegram.WebhookURL != "" {
		if err := tg.SetWebhook(ctx, cfg.Telegram.WebhookURL, cfg.Telegram.WebhookSecret); err != nil {
			lgr.Printf("[WARN] can't register webhook %s: %v", cfg.Telegram.WebhookURL, err)
		} else {
			lgr.Printf("[INFO] webhook registered at %s", cfg.Telegram.WebhookURL)
		}
	}
	notifyOwner(ctx, tg, cfg)

	sched.Start(ctx)
	defer sched.Stop()

	if err := srv.Run(ctx); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

// loadConfig reads the config file, or takes defaults without one, and applies cli overrides
func loadConfig(opts Opts) (*config.Config, error) {
	cfg := config.Default()
	if opts.Config != "" {
		var err error
		if cfg, err = config.Load(opts.Config); err != nil {
			return nil, err
		}
	}
	applyOverrides(cfg, opts)
	return cfg, nil
}

func applyOverrides(cfg *config.Config, opts Opts) {
	setStr := func(dst *string, v string) {
		if v = strings.TrimSpace(v); v != "" {
			*dst = v
		}
	}

	if opts.Port > 0 {
		cfg.Server.Listen = fmt.Sprintf(":%d", opts.Port)
	}
	setStr(&cfg.Telegram.Token, opts.Token)
	setStr(&cfg.Telegram.Channel, opts.Channel)
	setStr(&cfg.Telegram.WebhookURL, opts.Webhook)
	if opts.Owner != 0 {
		cfg.Telegram.Owner = opts.Owner
	}
	if ids := config.ParseAdminIDs(opts.Admins); len(ids) > 0 {
		cfg.Telegram.Admins = ids
	}

	setStr(&cfg.LLM.OpenAI.APIKey, opts.OpenAI.APIKey)
	setStr(&cfg.LLM.OpenAI.Model, opts.OpenAI.Model)
	setStr(&cfg.LLM.DeepSeek.APIKey, opts.DeepSeek.APIKey)
	setStr(&cfg.LLM.DeepSeek.Endpoint, opts.DeepSeek.URL)
	setStr(&cfg.LLM.DeepSeek.Model, opts.DeepSeek.Model)
	setStr(&cfg.LLM.Gemini.APIKey, opts.Gemini.APIKey)
	setStr(&cfg.Schedule.KeepAliveURL, opts.SelfPingURL)
}

// makeSummarizer builds the backend chain in order OpenAI, DeepSeek, Gemini. Backends without
// a key are skipped, with none configured every summary comes from the local fallback.
func makeSummarizer(ctx context.Context, cfg *config.Config) (summarizer *llm.Summarizer, closeFn func()) {
	var backends []llm.Backend
	closeFn = func() {}

	if cfg.LLM.OpenAI.APIKey != "" {
		backends = append(backends, llm.NewOpenAIBackend(llm.OpenAIParams{
			Name:        "openai",
			APIKey:      cfg.LLM.OpenAI.APIKey,
			Endpoint:    cfg.LLM.OpenAI.Endpoint,
			Model:       cfg.LLM.OpenAI.Model,
			MaxTokens:   cfg.LLM.MaxTokens,
			Temperature: cfg.LLM.Temperature,
		}))
	}
	if cfg.LLM.DeepSeek.APIKey != "" {
		backends = append(backends, llm.NewOpenAIBackend(llm.OpenAIParams{
			Name:        "deepseek",
			APIKey:      cfg.LLM.DeepSeek.APIKey,
			Endpoint:    cfg.LLM.DeepSeek.Endpoint,
			Model:       cfg.LLM.DeepSeek.Model,
			MaxTokens:   cfg.LLM.MaxTokens,
			Temperature: cfg.LLM.Temperature,
		}))
	}
	if cfg.LLM.Gemini.APIKey != "" {
		gemini, err := llm.NewGeminiBackend(ctx, llm.GeminiParams{
			APIKey:      cfg.LLM.Gemini.APIKey,
			Model:       cfg.LLM.Gemini.Model,
			MaxTokens:   cfg.LLM.MaxTokens,
			Temperature: cfg.LLM.Temperature,
		})
		if err != nil {
			lgr.Printf("[WARN] gemini backend disabled: %v", err)
		} else {
			backends = append(backends, gemini)
			closeFn = func() {
				if err := gemini.Close(); err != nil {
					lgr.Printf("[WARN] can't close gemini client: %v", err)
				}
			}
		}
	}

	names := make([]string, 0, len(backends))
	for _, b := range backends {
		names = append(names, b.Name())
	}
	lgr.Printf("[INFO] summary backends: %v, fallback always on", names)

	return llm.NewSummarizer(llm.Params{
		Backends:        backends,
		Language:        cfg.LLM.Language,
		SystemPrompt:    cfg.LLM.SystemPrompt,
		Timeout:         cfg.LLM.Timeout,
		DefaultHashtags: cfg.LLM.DefaultHashtags,
		FallbackNote:    cfg.LLM.FallbackNote,
	}), closeFn
}

func briefParams(briefs []config.BriefConfig) []scheduler.BriefParams {
	res := make([]scheduler.BriefParams, 0, len(briefs))
	for _, b := range briefs {
		res = append(res, scheduler.BriefParams{
			Name:     b.Name,
			Spec:     b.Spec,
			Window:   b.Window,
			Kind:     b.Kind,
			Title:    b.Title,
			Body:     b.Body,
			Question: b.Question,
			Options:  b.Options,
		})
	}
	return res
}

// notifyOwner sends the startup message to the owner, failures are only logged
func notifyOwner(ctx context.Context, tg *telegram.Client, cfg *config.Config) {
	if cfg.Telegram.Owner == 0 {
		return
	}
	msg := fmt.Sprintf("✅ <b>%s</b> is online\nVersion: %s\nFeeds: %d\nInterval: %d min\nSend <code>menu</code> for controls.",
		cfg.Format.BotName, revision, len(cfg.Feeds.URLs), int(cfg.Schedule.Interval/time.Minute))
	if _, err := tg.SendText(ctx, fmt.Sprintf("%d", cfg.Telegram.Owner), msg, nil); err != nil {
		lgr.Printf("[WARN] can't notify owner %d: %v", cfg.Telegram.Owner, err)
	}
}

func configSecrets(cfg *config.Config) []string {
	return []string{cfg.Telegram.Token, cfg.Telegram.WebhookSecret,
		cfg.LLM.OpenAI.APIKey, cfg.LLM.DeepSeek.APIKey, cfg.LLM.Gemini.APIKey}
}

func setupLog(dbg, noColor bool, secrets ...string) {
	logOpts := []lgr.Option{lgr.Msec, lgr.LevelBraces}
	if dbg {
		logOpts = []lgr.Option{lgr.Debug, lgr.CallerFile, lgr.CallerFunc, lgr.Msec, lgr.LevelBraces, lgr.StackTraceOnError}
	}

	if !noColor {
		colorizer := lgr.Mapper{
			ErrorFunc:  func(s string) string { return color.New(color.FgHiRed).Sprint(s) },
			WarnFunc:   func(s string) string { return color.New(color.FgRed).Sprint(s) },
			InfoFunc:   func(s string) string { return color.New(color.FgYellow).Sprint(s) },
			DebugFunc:  func(s string) string { return color.New(color.FgWhite).Sprint(s) },
			CallerFunc: func(s string) string { return color.New(color.FgBlue).Sprint(s) },
			TimeFunc:   func(s string) string { return color.New(color.FgCyan).Sprint(s) },
		}
		logOpts = append(logOpts, lgr.Map(colorizer))
	}

	var secs []string
	for _, s := range secrets {
		if s != "" {
			secs = append(secs, s)
		}
	}
	if len(secs) > 0 {
		logOpts = append(logOpts, lgr.Secret(secs...))
	}
	lgr.SetupStdLogger(logOpts...)
	lgr.Setup(logOpts...)
}
