package config

import (
	"github.com/spf13/viper"
)

type Config struct {
	Board     BoardConfig     `mapstructure:"board"`
	Engine    EngineConfig    `mapstructure:"engine"`
	Mechanics MechanicsConfig `mapstructure:"mechanics"`
	Log       LogConfig       `mapstructure:"log"`
}

type BoardConfig struct {
	Width      int `mapstructure:"width"`
	Height     int `mapstructure:"height"`
	DeployRows int `mapstructure:"deploy_rows"`
}

type EngineConfig struct {
	MaxRounds   int `mapstructure:"max_rounds"`
	MinDamage   int `mapstructure:"min_damage"`
	DodgeCap    int `mapstructure:"dodge_cap"`     // percent
	PathMaxIter int `mapstructure:"path_max_iter"` // A* expansion cap
}

type MechanicsConfig struct {
	ZoneOfControlRange int `mapstructure:"zoc_range"`
	ArcherPenaltyPct   int `mapstructure:"archer_penalty_pct"`    // damage penalty while engaged
	ArcFireAccuracyPct int `mapstructure:"arc_fire_accuracy_pct"` // extra miss chance for arc fire
	FiringArcWidthDeg  int `mapstructure:"firing_arc_width_deg"`  // full width centered on facing
	AuraRangeCap       int `mapstructure:"aura_range_cap"`
}

type LogConfig struct {
	Debug bool `mapstructure:"debug"`
}

// Load reads config from the given YAML file path.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default returns the built-in configuration without reading a file.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		// Defaults always unmarshal; a failure here is a programming error.
		panic(err)
	}
	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("board.width", 8)
	v.SetDefault("board.height", 10)
	v.SetDefault("board.deploy_rows", 2)
	v.SetDefault("engine.max_rounds", 50)
	v.SetDefault("engine.min_damage", 1)
	v.SetDefault("engine.dodge_cap", 75)
	v.SetDefault("engine.path_max_iter", 1000)
	v.SetDefault("mechanics.zoc_range", 1)
	v.SetDefault("mechanics.archer_penalty_pct", 50)
	v.SetDefault("mechanics.arc_fire_accuracy_pct", 25)
	v.SetDefault("mechanics.firing_arc_width_deg", 180)
	v.SetDefault("mechanics.aura_range_cap", 3)
	v.SetDefault("log.debug", false)
}
