package config

import (
	"fmt"

	"lineage-workers/internal/lineage/matching"
)

type Config struct {
	App      AppConfig               `mapstructure:"app"`
	Camunda  CamundaConfig           `mapstructure:"camunda"`
	Database DatabaseConfig          `mapstructure:"database"`
	Workers  map[string]WorkerConfig `mapstructure:"workers"`
	Logging  LoggingConfig           `mapstructure:"logging"`
	Matching MatchingConfig          `mapstructure:"matching"`
	Server   ServerConfig            `mapstructure:"server"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type CamundaConfig struct {
	BrokerAddress  string `mapstructure:"broker_address"`
	MaxJobsActive  int    `mapstructure:"max_jobs_active"`
	Timeout        int    `mapstructure:"timeout"`         // milliseconds
	RequestTimeout int    `mapstructure:"request_timeout"` // milliseconds
	UsePlaintext   *bool  `mapstructure:"use_plaintext"`
}

type DatabaseConfig struct {
	Postgres PostgresConfig `mapstructure:"postgres"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
	MembersTable   string `mapstructure:"members_table"`
	QueryTimeout   int    `mapstructure:"query_timeout"` // milliseconds
}

func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type WorkerConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	MaxJobsActive int  `mapstructure:"max_jobs_active"`
	Timeout       int  `mapstructure:"timeout"`     // milliseconds
	MaxRetries    int  `mapstructure:"max_retries"` // For error handling
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

type ServerConfig struct {
	Port int `mapstructure:"port"`
}

// MatchingConfig is the process-wide base for ancestor matching. Jobs may
// override the numeric fields per request.
type MatchingConfig struct {
	FatherWeight           float64  `mapstructure:"father_weight"`
	GrandfatherWeight      float64  `mapstructure:"grandfather_weight"`
	GreatGrandfatherWeight float64  `mapstructure:"great_grandfather_weight"`
	MinimumTotalScore      float64  `mapstructure:"minimum_total_score"`
	MinimumFatherScore     float64  `mapstructure:"minimum_father_score"`
	IncludeLowConfidence   *bool    `mapstructure:"include_low_confidence"`
	FamilyName             string   `mapstructure:"family_name"`
	FamilyNameEn           string   `mapstructure:"family_name_en"`
	BranchPalette          []string `mapstructure:"branch_palette"`
}

// ToMatching converts the section, assuming defaults were applied.
func (m MatchingConfig) ToMatching() matching.Config {
	cfg := matching.Config{
		FatherWeight:           m.FatherWeight,
		GrandfatherWeight:      m.GrandfatherWeight,
		GreatGrandfatherWeight: m.GreatGrandfatherWeight,
		MinimumTotalScore:      m.MinimumTotalScore,
		MinimumFatherScore:     m.MinimumFatherScore,
		IncludeLowConfidence:   true,
		FamilyName:             m.FamilyName,
		FamilyNameEn:           m.FamilyNameEn,
	}
	if m.IncludeLowConfidence != nil {
		cfg.IncludeLowConfidence = *m.IncludeLowConfidence
	}
	return cfg
}
