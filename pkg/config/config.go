package config

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string `yaml:"environment"`
	Server      struct {
		Port            int           `yaml:"port"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"server"`
	API struct {
		BaseURL  string        `yaml:"base_url"`
		Token    string        `yaml:"token"`
		CacheTTL time.Duration `yaml:"cache_ttl"`
	} `yaml:"api"`
	Data struct {
		WindowDays   int    `yaml:"window_days"`
		PerTeamLimit int    `yaml:"per_team_limit"`
		StorePath    string `yaml:"store_path"`
	} `yaml:"data"`
	// Teams maps display names to provider team identifiers. The YAML file
	// may replace or extend the built-in table.
	Teams map[string]int `yaml:"teams"`
}

// Default returns a configuration with every knob at its standard value.
// The API token is the only field with no sensible default.
func Default() *Config {
	c := &Config{Environment: "production"}
	c.Server.Port = 8080
	c.Server.ReadTimeout = 15 * time.Second
	c.Server.WriteTimeout = 60 * time.Second
	c.Server.ShutdownTimeout = 10 * time.Second
	c.API.BaseURL = "https://api.football-data.org/v4"
	c.API.CacheTTL = 15 * time.Minute
	c.Data.WindowDays = 180
	c.Data.PerTeamLimit = 20
	c.Data.StorePath = "pronos.db"
	c.Teams = defaultTeams()
	return c
}

// Load reads and parses a YAML configuration file over the defaults.
func Load(path string) (*Config, error) {
	c := Default()

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	// Validate required fields
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment
// variables. A missing file is not an error; defaults plus environment are
// enough to run.
func LoadWithEnv(path string) (*Config, error) {
	var c *Config
	if _, err := os.Stat(path); err == nil {
		c, err = Load(path)
		if err != nil {
			return nil, err
		}
	} else {
		c = Default()
	}

	// Override with environment variables
	if v := os.Getenv("FOOTBALL_DATA_API_TOKEN"); v != "" {
		c.API.Token = v
	}
	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Server.Port = port
		}
	}
	if v := os.Getenv("PRONOS_DB_PATH"); v != "" {
		c.Data.StorePath = v
	}

	return c, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in 1..65535, got %d", c.Server.Port)
	}
	if c.API.BaseURL == "" {
		return fmt.Errorf("api.base_url is required")
	}
	if c.Data.WindowDays <= 0 {
		return fmt.Errorf("data.window_days must be positive, got %d", c.Data.WindowDays)
	}
	if c.Data.PerTeamLimit <= 0 {
		return fmt.Errorf("data.per_team_limit must be positive, got %d", c.Data.PerTeamLimit)
	}
	if len(c.Teams) == 0 {
		return fmt.Errorf("teams table cannot be empty")
	}
	return nil
}

// TeamID resolves a display name to its provider identifier
func (c *Config) TeamID(name string) (int, bool) {
	id, ok := c.Teams[name]
	return id, ok
}

// TeamNames returns the known team names in alphabetical order, for
// rendering selection lists
func (c *Config) TeamNames() []string {
	names := make([]string, 0, len(c.Teams))
	for name := range c.Teams {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// defaultTeams is the built-in table of supported clubs and their
// football-data.org identifiers
func defaultTeams() map[string]int {
	return map[string]int{
		"Manchester City": 65, "Liverpool": 64, "Paris Saint-Germain": 524, "Real Madrid": 86,
		"Chelsea": 61, "Arsenal": 57, "Brentford": 402, "Ipswich Town": 349, "Club Brugge": 851,
		"Nottingham Forest": 351, "Lille": 521, "PSV": 674, "Barcelona": 81, "Atlético Madrid": 78,
		"Inter Milan": 108, "Lazio": 110, "Angers SCO": 556, "Stade de Reims": 547,
		"Brighton & Hove Albion": 397, "Fulham": 63, "AFC Bournemouth": 1044,
		"Wolverhampton Wanderers": 76, "Crystal Palace": 354, "Aston Villa": 58,
		"Southampton": 340, "Bayern Munich": 5, "Benfica": 503, "Manchester United": 66,
		"Tottenham Hotspur": 73, "Juventus": 109, "AC Milan": 98, "Napoli": 113,
		"AS Roma": 100, "Borussia Dortmund": 4, "RB Leipzig": 721, "Porto": 497, "Ajax": 678,
		"Real Sociedad": 92, "Getafe": 82, "Newcastle United": 67, "Club Deportivo Leganés": 745,
		"Leicester City": 338, "Everton": 62, "West Ham United": 563, "Valencia": 95,
		"Sevilla": 559, "Bayer Leverkusen": 3, "Atalanta": 102, "Fiorentina": 99,
		"Sporting CP": 498, "Villarreal": 94,
	}
}
