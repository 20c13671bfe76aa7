// Package config provides configuration loading, defaults, and validation for
// townpipe. Values come from config.Default(), an optional YAML/TOML file, and
// TOWNPIPE_* environment variables, in increasing priority.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// envPrefix is the environment variable prefix for every setting.
const envPrefix = "TOWNPIPE"

// Config is the complete runtime configuration.
type Config struct {
	Markers     Markers  `mapstructure:"markers"`
	Defect      Defect   `mapstructure:"defect"`
	Images      Images   `mapstructure:"images"`
	Boilerplate []string `mapstructure:"boilerplate"`
	// EmptyPhrase marks a building without occupants.
	EmptyPhrase string `mapstructure:"empty_phrase"`
	// MapContainerID is the element id of the generator's map grid.
	MapContainerID string      `mapstructure:"map_container_id"`
	Store          StoreConfig `mapstructure:"store"`
	Log            LogConfig   `mapstructure:"log"`
}

// Markers is the versioned set of section marker images. A generator release
// that renames its images only needs a new marker set, not new code.
type Markers struct {
	Version   string `mapstructure:"version"`
	NPCs      string `mapstructure:"npcs"`
	Ruler     string `mapstructure:"ruler"`
	Guards    string `mapstructure:"guards"`
	Churches  string `mapstructure:"churches"`
	Banks     string `mapstructure:"banks"`
	Merchants string `mapstructure:"merchants"`
	Guilds    string `mapstructure:"guilds"`
}

// Defect describes where the generator leaves an inline span unterminated.
type Defect struct {
	Marker string `mapstructure:"marker"`
}

// Images controls image URL rewriting and category header images.
type Images struct {
	CanonicalHost string `mapstructure:"canonical_host"`
	CanonicalBase string `mapstructure:"canonical_base"`
	// AssetBase serves "<AssetBase>/images/<section>.jpg" headers.
	AssetBase string `mapstructure:"asset_base"`
}

// StoreConfig selects the content store backend.
type StoreConfig struct {
	Driver string `mapstructure:"driver"` // "memory" or "sqlite"
	Path   string `mapstructure:"path"`
}

// LogConfig carries logger construction parameters.
type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // json or console
}

// Default returns the configuration matching the 2017 Wizardawn generator layout.
func Default() Config {
	return Config{
		Markers: Markers{
			Version:   "wizardawn-2017",
			NPCs:      "wtown_01.jpg",
			Ruler:     "wtown_02.jpg",
			Guards:    "wtown_03.jpg",
			Churches:  "wtown_04.jpg",
			Banks:     "wtown_05.jpg",
			Merchants: "wtown_06.jpg",
			Guilds:    "wtown_07.jpg",
		},
		Defect: Defect{
			Marker: "wtown_01.jpg",
		},
		Images: Images{
			CanonicalHost: "wizardawn.and-mag.com",
			CanonicalBase: "http://wizardawn.and-mag.com/maps",
			AssetBase:     "assets",
		},
		Boilerplate: []string{
			`<!DOCTYPE html PUBLIC "-//W3C//DTD HTML 4.0 Transitional//EN" "http://www.w3.org/TR/REC-html40/loose.dtd">`,
			"<!DOCTYPE html>",
			"<html>",
			"</html>",
			"<body>",
			"</body>",
		},
		EmptyPhrase:    "This building is empty",
		MapContainerID: "myMap",
		Store: StoreConfig{
			Driver: "memory",
			Path:   "townpipe.db",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// newViper builds a viper instance with TOWNPIPE_ env binding, where nested
// keys like "store.driver" resolve to TOWNPIPE_STORE_DRIVER.
func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	setDefaults(v, Default())
	return v
}

// setDefaults registers every default so AutomaticEnv can override it.
func setDefaults(v *viper.Viper, d Config) {
	v.SetDefault("markers.version", d.Markers.Version)
	v.SetDefault("markers.npcs", d.Markers.NPCs)
	v.SetDefault("markers.ruler", d.Markers.Ruler)
	v.SetDefault("markers.guards", d.Markers.Guards)
	v.SetDefault("markers.churches", d.Markers.Churches)
	v.SetDefault("markers.banks", d.Markers.Banks)
	v.SetDefault("markers.merchants", d.Markers.Merchants)
	v.SetDefault("markers.guilds", d.Markers.Guilds)
	v.SetDefault("defect.marker", d.Defect.Marker)
	v.SetDefault("images.canonical_host", d.Images.CanonicalHost)
	v.SetDefault("images.canonical_base", d.Images.CanonicalBase)
	v.SetDefault("images.asset_base", d.Images.AssetBase)
	v.SetDefault("boilerplate", d.Boilerplate)
	v.SetDefault("empty_phrase", d.EmptyPhrase)
	v.SetDefault("map_container_id", d.MapContainerID)
	v.SetDefault("store.driver", d.Store.Driver)
	v.SetDefault("store.path", d.Store.Path)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
}

// Load reads the file at path (YAML or TOML, by extension), merges TOWNPIPE_*
// overrides and defaults, and validates the result. An empty path loads
// defaults and environment only.
func Load(path string) (Config, error) {
	v := newViper()
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config file %q: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

// Validate checks that every setting the converter depends on is present.
func (c Config) Validate() error {
	var errs []error
	m := c.Markers
	for _, f := range []struct{ name, val string }{
		{"markers.npcs", m.NPCs}, {"markers.ruler", m.Ruler}, {"markers.guards", m.Guards},
		{"markers.churches", m.Churches}, {"markers.banks", m.Banks},
		{"markers.merchants", m.Merchants}, {"markers.guilds", m.Guilds},
	} {
		if f.val == "" {
			errs = append(errs, fmt.Errorf("%s is required", f.name))
		}
	}
	if c.Images.CanonicalHost == "" || c.Images.CanonicalBase == "" {
		errs = append(errs, errors.New("images.canonical_host and images.canonical_base are required"))
	}
	if c.MapContainerID == "" {
		errs = append(errs, errors.New("map_container_id is required"))
	}
	switch c.Store.Driver {
	case "memory":
	case "sqlite":
		if c.Store.Path == "" {
			errs = append(errs, errors.New("store.path is required for the sqlite driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown store.driver %q", c.Store.Driver))
	}
	return errors.Join(errs...)
}
