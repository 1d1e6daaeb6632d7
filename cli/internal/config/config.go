package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/afero"
	"github.com/spf13/viper"

	"github.com/satishbabariya/recordguard/query/builder"
	"github.com/satishbabariya/recordguard/query/domain"
	"github.com/satishbabariya/recordguard/runtime/plugin"
)

// AppFs is the filesystem config and .env files are read from.
var AppFs = afero.NewOsFs()

const (
	configName = ".recordguard"
	envPrefix  = "RECORDGUARD"
)

// Config holds the application configuration
type Config struct {
	Provider     string              `mapstructure:"provider"`
	DatabaseURL  string              `mapstructure:"database_url"`
	UserID       string              `mapstructure:"user_id"`
	BusinessUnit string              `mapstructure:"business_unit"`
	UserName     string              `mapstructure:"user_name"`
	LogLevel     string              `mapstructure:"log_level"`
	Columns      ColumnsConfig       `mapstructure:"columns"`
	Postgres     PostgresConfig      `mapstructure:"postgres"`
	Grants       []GrantConfig       `mapstructure:"grants"`
	Plugins      map[string][]string `mapstructure:"plugins"`

	// File is the config file that was read, if any.
	File string `mapstructure:"-"`
}

// ColumnsConfig names the id and audit columns.
type ColumnsConfig struct {
	ID             string `mapstructure:"id"`
	CreatorID      string `mapstructure:"creator_id"`
	BusinessUnitID string `mapstructure:"business_unit_id"`
}

// PostgresConfig holds Postgres-only settings.
type PostgresConfig struct {
	ReturningColumn string `mapstructure:"returning_column"`
}

// GrantConfig is one permission grant. Levels are names or integers.
type GrantConfig struct {
	UserID         string `mapstructure:"user_id"`
	BusinessUnitID string `mapstructure:"business_unit_id"`
	Read           string `mapstructure:"read"`
	Write          string `mapstructure:"write"`
	Delete         string `mapstructure:"delete"`
	Entity         string `mapstructure:"entity"`
}

// Load loads configuration from file, or from the default search path when
// file is empty. A missing default file is not an error.
func Load(file string) (*Config, error) {
	v := viper.New()
	v.SetFs(AppFs)

	if file != "" {
		v.SetConfigFile(file)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			return nil, err
		}
		v.SetConfigName(configName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath(home)
		v.AddConfigPath(filepath.Join(home, ".config", "recordguard"))
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("provider", "mysql")
	v.SetDefault("log_level", "warn")
	d := builder.DefaultColumns()
	v.SetDefault("columns.id", d.ID)
	v.SetDefault("columns.creator_id", d.CreatorID)
	v.SetDefault("columns.business_unit_id", d.BusinessUnitID)

	// explicit keys so AutomaticEnv can reach them through Unmarshal
	for _, key := range []string{"database_url", "user_id", "business_unit", "user_name", "postgres.returning_column"} {
		_ = v.BindEnv(key)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	if err := loadDotEnv(); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	cfg.File = v.ConfigFileUsed()

	if url := os.Getenv("DATABASE_URL"); url != "" {
		cfg.DatabaseURL = url
	}

	return &cfg, nil
}

// loadDotEnv loads .env, then .env.local over it, when present. Variables
// already set in the environment win over .env but not over .env.local.
func loadDotEnv() error {
	if err := applyDotEnv(".env", false); err != nil {
		return err
	}
	return applyDotEnv(".env.local", true)
}

func applyDotEnv(name string, override bool) error {
	f, err := AppFs.Open(name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to open %s: %w", name, err)
	}
	defer f.Close()

	vars, err := godotenv.Parse(f)
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", name, err)
	}
	for k, v := range vars {
		if _, set := os.LookupEnv(k); set && !override {
			continue
		}
		if err := os.Setenv(k, v); err != nil {
			return err
		}
	}
	return nil
}

// BuilderColumns returns the configured column names.
func (c *Config) BuilderColumns() builder.Columns {
	return builder.Columns{
		ID:             c.Columns.ID,
		CreatorID:      c.Columns.CreatorID,
		BusinessUnitID: c.Columns.BusinessUnitID,
	}.WithDefaults()
}

// PermissionGrants parses the configured grants. A blank level is Denied.
func (c *Config) PermissionGrants() ([]domain.PermissionGrant, error) {
	grants := make([]domain.PermissionGrant, 0, len(c.Grants))
	for i, g := range c.Grants {
		read, err := parseLevel(g.Read)
		if err != nil {
			return nil, fmt.Errorf("grants[%d].read: %w", i, err)
		}
		write, err := parseLevel(g.Write)
		if err != nil {
			return nil, fmt.Errorf("grants[%d].write: %w", i, err)
		}
		del, err := parseLevel(g.Delete)
		if err != nil {
			return nil, fmt.Errorf("grants[%d].delete: %w", i, err)
		}

		userID := g.UserID
		if userID == "" {
			userID = c.UserID
		}
		grants = append(grants, domain.PermissionGrant{
			GranteeUserID:  userID,
			BusinessUnitID: g.BusinessUnitID,
			Read:           read,
			Write:          write,
			Delete:         del,
			EntityName:     g.Entity,
		})
	}
	return grants, nil
}

func parseLevel(s string) (domain.Level, error) {
	if strings.TrimSpace(s) == "" {
		return domain.Denied, nil
	}
	return domain.ParseLevel(s)
}

// EntityPlugins returns the plugins configured for entity, in order.
func (c *Config) EntityPlugins(entity string) []plugin.EntityPlugin {
	ids := c.Plugins[strings.ToLower(entity)]
	out := make([]plugin.EntityPlugin, len(ids))
	for i, id := range ids {
		out[i] = plugin.EntityPlugin{Entity: entity, PluginID: id}
	}
	return out
}
