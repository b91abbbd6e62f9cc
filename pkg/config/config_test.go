package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("valid config", func(t *testing.T) {
		configContent := `
server:
  listen: ":9090"
  timeout: 45s

telegram:
  token: ${NEWSCAST_TEST_TOKEN}
  channel: "@news"
  owner: 100
  admins: [200, 300]

feeds:
  urls:
    - https://example.com/feed1.xml
    - https://example.com/feed2.xml
  per_feed_limit: 3

schedule:
  interval: 15m
  timezone: UTC
  briefs:
    - name: morning
      spec: "0 8 * * *"
    - name: vote
      spec: "0 12 * * *"
      kind: poll
      question: "Top story?"
      options: [a, b]

dedup:
  fuzzy: false
  max_ids: 5000
`
		t.Setenv("NEWSCAST_TEST_TOKEN", "secret-token")
		configPath := filepath.Join(t.TempDir(), "test-config.yml")
		require.NoError(t, os.WriteFile(configPath, []byte(configContent), 0o600))

		cfg, err := Load(configPath)
		require.NoError(t, err)
		require.NotNil(t, cfg)

		assert.Equal(t, ":9090", cfg.Server.Listen)
		assert.Equal(t, 45*time.Second, cfg.Server.Timeout)
		assert.Equal(t, "secret-token", cfg.Telegram.Token)
		assert.Equal(t, "@news", cfg.Telegram.Channel)
		assert.Equal(t, []string{"https://example.com/feed1.xml", "https://example.com/feed2.xml"}, cfg.Feeds.URLs)
		assert.Equal(t, 3, cfg.Feeds.PerFeedLimit)
		assert.Equal(t, 15*time.Minute, cfg.Schedule.Interval)
		require.Len(t, cfg.Schedule.Briefs, 2)
		assert.Equal(t, "brief", cfg.Schedule.Briefs[0].Kind)
		assert.Equal(t, time.Hour, cfg.Schedule.Briefs[0].Window)
		assert.Equal(t, "poll", cfg.Schedule.Briefs[1].Kind)
		assert.False(t, cfg.Dedup.Fuzzy)
		assert.Equal(t, 5000, cfg.Dedup.MaxIDs)
		assert.Equal(t, []int64{100, 200, 300}, cfg.AdminIDs())

		require.NoError(t, cfg.Validate())
	})

	t.Run("defaults", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "test-config.yml")
		require.NoError(t, os.WriteFile(configPath, []byte("telegram:\n  token: x\n"), 0o600))

		cfg, err := Load(configPath)
		require.NoError(t, err)

		assert.Equal(t, ":10000", cfg.Server.Listen)
		assert.Equal(t, "https://api.telegram.org", cfg.Telegram.APIURL)
		assert.Len(t, cfg.Feeds.URLs, 3)
		assert.Equal(t, 10, cfg.Feeds.PerFeedLimit)
		assert.Equal(t, 30*time.Minute, cfg.Schedule.Interval)
		assert.Equal(t, 5*time.Minute, cfg.Schedule.MinInterval)
		assert.Equal(t, 180*time.Minute, cfg.Schedule.MaxInterval)
		assert.Equal(t, 10*time.Second, cfg.Schedule.Tick)
		assert.Equal(t, 5, cfg.Schedule.ItemsPerRun)
		assert.Equal(t, 3, cfg.Schedule.AdminPostItems)
		assert.Equal(t, 2*time.Second, cfg.Schedule.SendDelay)
		assert.Equal(t, "Asia/Kolkata", cfg.Schedule.Timezone)
		require.Len(t, cfg.Schedule.Briefs, 2)
		assert.Equal(t, "0 9 * * *", cfg.Schedule.Briefs[0].Spec)
		assert.Equal(t, "0 22 * * *", cfg.Schedule.Briefs[1].Spec)
		assert.True(t, cfg.Dedup.Fuzzy)
		assert.InEpsilon(t, 0.9, cfg.Dedup.Threshold, 0.0001)
		assert.Equal(t, 100, cfg.Dedup.RecentTitles)
		assert.Equal(t, "#WorldNews #Breaking #Update", cfg.LLM.DefaultHashtags)
		assert.Equal(t, "deepseek-chat", cfg.LLM.DeepSeek.Model)
	})

	t.Run("file not found", func(t *testing.T) {
		cfg, err := Load("/non/existent/file.yml")
		require.Error(t, err)
		assert.Nil(t, cfg)
		assert.Contains(t, err.Error(), "read config file")
	})

	t.Run("invalid yaml", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "bad.yml")
		require.NoError(t, os.WriteFile(configPath, []byte("server: [unclosed"), 0o600))
		_, err := Load(configPath)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parse config")
	})
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config {
		cfg := Default()
		cfg.Telegram.Token = "token"
		cfg.Telegram.Channel = "-100123"
		return cfg
	}
	require.NoError(t, valid().Validate())

	tbl := []struct {
		name   string
		modify func(c *Config)
		errIs  error
		errMsg string
	}{
		{name: "missing token", modify: func(c *Config) { c.Telegram.Token = " " }, errIs: ErrMissingToken},
		{name: "missing channel", modify: func(c *Config) { c.Telegram.Channel = "" }, errIs: ErrMissingChannel},
		{name: "no feeds", modify: func(c *Config) { c.Feeds.URLs = nil }, errMsg: "feed url"},
		{name: "interval below min", modify: func(c *Config) { c.Schedule.Interval = time.Minute }, errMsg: "outside"},
		{name: "inverted bounds", modify: func(c *Config) { c.Schedule.MaxInterval = time.Minute }, errMsg: "invalid interval bounds"},
		{name: "bad timezone", modify: func(c *Config) { c.Schedule.Timezone = "Mars/Olympus" }, errMsg: "load timezone"},
		{name: "bad cron", modify: func(c *Config) { c.Schedule.Briefs[0].Spec = "every morning" }, errMsg: "invalid spec"},
		{name: "poll without options", modify: func(c *Config) { c.Schedule.Briefs[0].Kind = "poll" }, errMsg: "question"},
		{name: "unknown brief kind", modify: func(c *Config) { c.Schedule.Briefs[0].Kind = "video" }, errMsg: "unknown kind"},
		{name: "threshold", modify: func(c *Config) { c.Dedup.Threshold = 1.5 }, errMsg: "dedup.threshold"},
		{name: "temperature", modify: func(c *Config) { c.LLM.Temperature = 3 }, errMsg: "temperature"},
	}

	for _, tt := range tbl {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.modify(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			if tt.errIs != nil {
				require.ErrorIs(t, err, tt.errIs)
				return
			}
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestParseAdminIDs(t *testing.T) {
	assert.Empty(t, ParseAdminIDs(""))
	assert.Empty(t, ParseAdminIDs("   "))
	assert.Equal(t, []int64{1, 2, 3}, ParseAdminIDs("1,2 3"))
	assert.Equal(t, []int64{10, 30}, ParseAdminIDs(" 10 , abc,30,, "))
}

func TestConfig_AdminIDs(t *testing.T) {
	cfg := Default()
	assert.Empty(t, cfg.AdminIDs())

	cfg.Telegram.Owner = 7
	cfg.Telegram.Admins = []int64{7, 8, 0, 8}
	assert.Equal(t, []int64{7, 8}, cfg.AdminIDs())
}

func TestSchema(t *testing.T) {
	data, err := Schema()
	require.NoError(t, err)

	var schema map[string]any
	require.NoError(t, json.Unmarshal(data, &schema))
	assert.Equal(t, "newscast configuration", schema["title"])
	props, ok := schema["properties"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, props, "telegram")
	assert.Contains(t, props, "schedule")
	assert.Contains(t, props, "dedup")
}
