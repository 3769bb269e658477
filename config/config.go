package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const keyEnv = "ENV"
const envLocal = "local"

// DefaultFileGroups is used when search.file_groups is not configured.
// Extensions are listed without the leading dot.
var DefaultFileGroups = map[string][]string{
	"images":        {"png", "jpg", "jpeg", "gif", "bmp", "tiff", "tif", "heic", "webp", "svg", "ico", "raw"},
	"music":         {"mp3", "wav", "flac", "aac", "ogg", "m4a", "aiff", "wma", "mid", "midi"},
	"movies":        {"mp4", "mov", "avi", "mkv", "wmv", "flv", "webm", "m4v", "mpg", "mpeg"},
	"documents":     {"pdf", "txt", "md", "doc", "docx", "rtf", "odt", "pages", "tex", "epub"},
	"presentations": {"ppt", "pptx", "key", "odp"},
	"spreadsheets":  {"xls", "xlsx", "csv", "tsv", "numbers", "ods"},
	"archives":      {"zip", "tar", "gz", "tgz", "bz2", "xz", "7z", "rar", "dmg", "iso"},
	"code":          {"go", "py", "js", "ts", "java", "c", "h", "cpp", "rs", "rb", "sh", "html", "css", "json", "yaml", "yml", "toml", "xml", "sql"},
	"executables":   {"exe", "app", "bin", "msi", "deb", "rpm", "apk", "command"},
}

type Config struct {
	config *viper.Viper
}

func Load(env string) (*Config, error) {

	if len(env) == 0 {
		if env = os.Getenv(keyEnv); len(env) == 0 {
			env = envLocal
		}
	}

	configPath, err := getConfigPath(env)

	viperConfig := viper.New()
	if err == nil {
		viperConfig.SetConfigFile(configPath)
		if err := viperConfig.ReadInConfig(); err != nil {
			slog.Warn(fmt.Sprintf("error reading config file, %s", err))
		}
	}
	viperConfig.AutomaticEnv()
	setDefaults(viperConfig)

	cfg := &Config{
		config: viperConfig,
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8099")
	v.SetDefault("database.kvdb_path", filepath.Join(defaultDataDir(), "filefind.db"))
	v.SetDefault("log.level", "info")
	v.SetDefault("search.job_retention", "10m")
}

func defaultDataDir() string {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		return ".filefind"
	}
	return filepath.Join(cacheDir, "filefind")
}

func (c *Config) GetPort() string {
	port := c.config.GetString("PORT")
	if len(port) == 0 {
		port = c.config.GetString("server.port")
	}

	return port
}

func (c *Config) GetKVDBPath() string {
	kvdbPath := c.config.GetString("KVDB_PATH")
	if len(kvdbPath) == 0 {
		kvdbPath = c.config.GetString("database.kvdb_path")
	}

	return kvdbPath
}

func (c *Config) GetLogLevel() string {
	level := c.config.GetString("LOG_LEVEL")
	if len(level) == 0 {
		level = c.config.GetString("log.level")
	}

	return level
}

// GetDefaultRoot is the working root used when a request does not carry one.
func (c *Config) GetDefaultRoot() string {
	root := c.config.GetString("search.default_root")
	if len(root) > 0 {
		return root
	}
	if wd, err := os.Getwd(); err == nil {
		return wd
	}
	return string(filepath.Separator)
}

// ExcludedFiles returns the configured path prefixes that never appear in results.
// EXCLUDED_FILES (comma separated) wins over search.excluded_files.
func (c *Config) ExcludedFiles() []string {
	if raw := c.config.GetString("EXCLUDED_FILES"); len(raw) > 0 {
		var excluded []string
		for _, prefix := range strings.Split(raw, ",") {
			if prefix = strings.TrimSpace(prefix); prefix != "" {
				excluded = append(excluded, prefix)
			}
		}
		return excluded
	}

	return c.config.GetStringSlice("search.excluded_files")
}

// FileGroups returns a copy of the group table; group names are lowercase.
func (c *Config) FileGroups() map[string][]string {
	groups := c.config.GetStringMapStringSlice("search.file_groups")
	if len(groups) == 0 {
		groups = DefaultFileGroups
	}

	copied := make(map[string][]string, len(groups))
	for name, extensions := range groups {
		copied[strings.ToLower(name)] = append([]string(nil), extensions...)
	}

	return copied
}

// JobRetention is how long the server keeps a finished search for polling.
func (c *Config) JobRetention() time.Duration {
	if retention := c.config.GetDuration("JOB_RETENTION"); retention > 0 {
		return retention
	}
	return c.config.GetDuration("search.job_retention")
}

func getProjectRoot() (string, error) {
	currentDir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get current working directory: %w", err)
	}

	for {
		configDir := filepath.Join(currentDir, "config")
		if info, err := os.Stat(configDir); err == nil && info.IsDir() {
			return currentDir, nil
		}

		parent := filepath.Dir(currentDir)

		if parent == currentDir {
			break
		}

		currentDir = parent
	}

	return "", fmt.Errorf("could not find project root (directory containing 'config' folder)")
}

func getConfigPath(env string) (string, error) {
	configFile := fmt.Sprintf("config.%s.yaml", env)

	projectRoot, err := getProjectRoot()
	if err != nil {
		slog.Warn("failed to find project root with config directory, will use environment variables instead", "err", err.Error())
		return "", fmt.Errorf("failed to find project root: %w", err)
	}
	configPath := filepath.Join(projectRoot, "config", configFile)
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		slog.Warn("failed to find config file within config directory, will use environment variables instead", "err", err.Error())
		return "", fmt.Errorf("config file does not exist: %s", configPath)
	}

	return configPath, nil
}
