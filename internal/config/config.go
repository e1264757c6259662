package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	LogFile  string       `yaml:"log_file"`
	DebugDir string       `yaml:"debug_dir"`
	Log      LogConfig    `yaml:"log"`
	Trello   TrelloConfig `yaml:"trello"`
	Slack    SlackConfig  `yaml:"slack"`

	// UserMapping holds raw "trelloUser=slackUser" pairs; Users is the parsed form.
	UserMapping []string          `yaml:"user_mapping"`
	Users       map[string]string `yaml:"-"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

type TrelloConfig struct {
	Key           string   `yaml:"key"`
	Token         string   `yaml:"token"`
	BoardIDs      []string `yaml:"board_ids"`
	ReviewLists   []string `yaml:"review_lists"`
	InactiveLists []string `yaml:"inactive_lists"`
}

type SlackConfig struct {
	BotToken string `yaml:"bot_token"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyEnv()
	cfg.setDefaults()

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

// applyEnv overlays secrets and scope settings from the environment,
// so tokens can stay out of the config file.
func (c *Config) applyEnv() {
	if v := os.Getenv("TRELLO_KEY"); v != "" {
		c.Trello.Key = v
	}
	if v := os.Getenv("TRELLO_TOKEN"); v != "" {
		c.Trello.Token = v
	}
	if v := os.Getenv("SLACK_BOT_TOKEN"); v != "" {
		c.Slack.BotToken = v
	}
	if v := os.Getenv("USER_MAPPING"); v != "" {
		c.UserMapping = splitAndTrim(v)
	}
	if v := os.Getenv("TRELLO_BOARD_IDS"); v != "" {
		c.Trello.BoardIDs = splitAndTrim(v)
	}
	if v := os.Getenv("TRELLO_REVIEW_LISTS"); v != "" {
		c.Trello.ReviewLists = splitAndTrim(v)
	}
	if v := os.Getenv("TRELLO_INACTIVE_CARDS_LISTS"); v != "" {
		c.Trello.InactiveLists = splitAndTrim(v)
	}
}

func (c *Config) setDefaults() {
	if c.LogFile == "" {
		c.LogFile = "logs/trello-notify.log"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

func (c *Config) validate() error {
	if c.Trello.Key == "" {
		return fmt.Errorf("trello.key required")
	}
	if c.Trello.Token == "" {
		return fmt.Errorf("trello.token required")
	}
	if c.Slack.BotToken == "" {
		return fmt.Errorf("slack.bot_token required")
	}
	if len(c.Trello.BoardIDs) == 0 {
		return fmt.Errorf("no trello boards configured")
	}

	users, err := parseUserMapping(c.UserMapping)
	if err != nil {
		return err
	}
	c.Users = users

	return nil
}

func parseUserMapping(pairs []string) (map[string]string, error) {
	users := make(map[string]string, len(pairs))
	for i, pair := range pairs {
		trello, slack, ok := strings.Cut(pair, "=")
		trello = strings.TrimSpace(trello)
		slack = strings.TrimSpace(slack)
		if !ok || trello == "" || slack == "" {
			return nil, fmt.Errorf("user_mapping[%d]: invalid mapping %q (want trelloUser=slackUser)", i, pair)
		}
		users[trello] = slack
	}
	return users, nil
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
