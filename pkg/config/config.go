package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/travigo/railinfo/pkg/util"
	"gopkg.in/yaml.v3"
)

const EnvironmentPrefix = "TRAVIGO_"

type Config struct {
	Listen string `yaml:"listen" validate:"required"`

	Navitia  NavitiaConfig  `yaml:"navitia"`
	Catalog  CatalogConfig  `yaml:"catalog"`
	Upstream UpstreamConfig `yaml:"upstream"`
	Cache    CacheConfig    `yaml:"cache"`
	Redis    RedisConfig    `yaml:"redis"`
	Strikes  StrikesConfig  `yaml:"strikes"`

	DashboardStations []Station `yaml:"dashboard_stations" validate:"dive"`
}

type NavitiaConfig struct {
	URL   string `yaml:"url" validate:"required,url"`
	Token string `yaml:"token"`
}

type CatalogConfig struct {
	URL string `yaml:"url" validate:"required,url"`
}

type UpstreamConfig struct {
	Timeout Duration `yaml:"timeout" validate:"gt=0"`
	Retries uint64   `yaml:"retries" validate:"lte=10"`
}

type CacheConfig struct {
	Stations    Duration `yaml:"stations" validate:"gt=0"`
	Departures  Duration `yaml:"departures" validate:"gt=0"`
	Disruptions Duration `yaml:"disruptions" validate:"gt=0"`
	Strikes     Duration `yaml:"strikes" validate:"gt=0"`
	Dashboard   Duration `yaml:"dashboard" validate:"gt=0"`
	JourneyPlan Duration `yaml:"journey_plan" validate:"gt=0"`
}

type RedisConfig struct {
	Address  string `yaml:"address" validate:"omitempty,hostname_port"`
	Password string `yaml:"password"`
	Database int    `yaml:"database" validate:"gte=0"`
}

func (r RedisConfig) Enabled() bool {
	return r.Address != ""
}

type StrikesConfig struct {
	// Rule is an expression evaluated per disruption, empty uses keyword matching
	Rule     string   `yaml:"rule"`
	Keywords []string `yaml:"keywords"`
}

type Station struct {
	ID     string `yaml:"id" validate:"required"`
	Name   string `yaml:"name" validate:"required"`
	Region string `yaml:"region"`
}

func Default() *Config {
	return &Config{
		Listen: ":8080",
		Navitia: NavitiaConfig{
			URL: "https://api.sncf.com/v1/coverage/sncf",
		},
		Catalog: CatalogConfig{
			URL: "https://transport.data.gouv.fr/api",
		},
		Upstream: UpstreamConfig{
			Timeout: Duration(5 * time.Second),
			Retries: 2,
		},
		Cache: CacheConfig{
			Stations:    Duration(24 * time.Hour),
			Departures:  Duration(30 * time.Second),
			Disruptions: Duration(5 * time.Minute),
			Strikes:     Duration(15 * time.Minute),
			Dashboard:   Duration(30 * time.Second),
			JourneyPlan: Duration(2 * time.Minute),
		},
		DashboardStations: []Station{
			{ID: "stop_area:SNCF:87686006", Name: "Paris Gare de Lyon", Region: "Île-de-France"},
			{ID: "stop_area:SNCF:87271007", Name: "Paris Nord", Region: "Île-de-France"},
			{ID: "stop_area:SNCF:87723197", Name: "Lyon Part-Dieu", Region: "Auvergne-Rhône-Alpes"},
			{ID: "stop_area:SNCF:87751008", Name: "Marseille Saint-Charles", Region: "Provence-Alpes-Côte d'Azur"},
			{ID: "stop_area:SNCF:87581009", Name: "Bordeaux Saint-Jean", Region: "Nouvelle-Aquitaine"},
			{ID: "stop_area:SNCF:87286005", Name: "Lille Flandres", Region: "Hauts-de-France"},
			{ID: "stop_area:SNCF:87212027", Name: "Strasbourg", Region: "Grand Est"},
			{ID: "stop_area:SNCF:87471003", Name: "Rennes", Region: "Bretagne"},
		},
	}
}

// Load reads .env, the optional TRAVIGO_CONFIG_FILE and then the TRAVIGO_ environment, later
// sources overriding earlier ones
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Msg("Failed to read .env file")
	}

	return LoadFrom(util.GetEnvironmentVariables())
}

func LoadFrom(env map[string]string) (*Config, error) {
	config := Default()

	if path := env[EnvironmentPrefix+"CONFIG_FILE"]; path != "" {
		if err := config.readFile(path); err != nil {
			return nil, err
		}
	}

	if err := config.applyEnvironment(env); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func (c *Config) readFile(path string) error {
	contents, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	if err := yaml.Unmarshal(contents, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	return nil
}

func (c *Config) applyEnvironment(env map[string]string) error {
	lookup := func(key string) (string, bool) {
		value, exists := env[EnvironmentPrefix+key]
		return value, exists && value != ""
	}

	stringValues := map[string]*string{
		"LISTEN":         &c.Listen,
		"NAVITIA_URL":    &c.Navitia.URL,
		"NAVITIA_TOKEN":  &c.Navitia.Token,
		"CATALOG_URL":    &c.Catalog.URL,
		"REDIS_ADDRESS":  &c.Redis.Address,
		"REDIS_PASSWORD": &c.Redis.Password,
		"STRIKE_RULE":    &c.Strikes.Rule,
	}
	for key, target := range stringValues {
		if value, exists := lookup(key); exists {
			*target = value
		}
	}

	durations := map[string]*Duration{
		"UPSTREAM_TIMEOUT":       &c.Upstream.Timeout,
		"CACHE_TTL_STATIONS":     &c.Cache.Stations,
		"CACHE_TTL_DEPARTURES":   &c.Cache.Departures,
		"CACHE_TTL_DISRUPTIONS":  &c.Cache.Disruptions,
		"CACHE_TTL_STRIKES":      &c.Cache.Strikes,
		"CACHE_TTL_DASHBOARD":    &c.Cache.Dashboard,
		"CACHE_TTL_JOURNEY_PLAN": &c.Cache.JourneyPlan,
	}
	for key, target := range durations {
		if value, exists := lookup(key); exists {
			parsed, err := ParseDuration(value)
			if err != nil {
				return fmt.Errorf("%s%s: %w", EnvironmentPrefix, key, err)
			}
			*target = Duration(parsed)
		}
	}

	if value, exists := lookup("UPSTREAM_RETRIES"); exists {
		retries, err := strconv.ParseUint(value, 10, 64)
		if err != nil {
			return fmt.Errorf("%sUPSTREAM_RETRIES: %w", EnvironmentPrefix, err)
		}
		c.Upstream.Retries = retries
	}

	if value, exists := lookup("REDIS_DATABASE"); exists {
		database, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%sREDIS_DATABASE: %w", EnvironmentPrefix, err)
		}
		c.Redis.Database = database
	}

	if value, exists := lookup("STRIKE_KEYWORDS"); exists {
		c.Strikes.Keywords = util.RemoveDuplicateStrings(splitList(value), nil)
	}

	return nil
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	return parts
}

func (c *Config) Validate() error {
	validate := validator.New(validator.WithRequiredStructEnabled())

	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	return nil
}
