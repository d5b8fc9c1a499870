package config

import (
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix of environment variables that override values
// loaded from the YAML file, e.g. TRAINCAL_CALENDAR_PATH.
const EnvPrefix = "TRAINCAL"

const (
	defaultListen      = "127.0.0.1:8080"
	defaultTimezone    = "America/New_York"
	defaultLogLevel    = "info"
	defaultSyncCron    = "@hourly"
	defaultSearchMonth = 6
	defaultProduct     = "Amtrak2Calendar"
	defaultDataDir     = "/var/lib/traincal"
)

// BasicAuthConfig holds HTTP Basic Auth credentials for the Web UI/API.
type BasicAuthConfig struct {
	Username string `yaml:"username" json:"username"`
	Password string `yaml:"password" json:"password"`
}

// Config is the top-level application configuration.
type Config struct {
	// Listen is the HTTP listen address for the Web UI and API.
	Listen string `yaml:"listen" json:"listen" envconfig:"LISTEN"`

	// Timezone is the IANA zone used for naive departure times found in
	// notification emails, which carry no station codes.
	Timezone string `yaml:"timezone" json:"timezone" envconfig:"TIMEZONE"`

	LogLevel string `yaml:"log_level" json:"log_level" envconfig:"LOG_LEVEL"`

	// SyncCron is a cron-style schedule (e.g. "@hourly", "*/30 * * * *")
	// for the automatic sync in serve mode.
	SyncCron string `yaml:"sync_cron" json:"sync_cron" envconfig:"SYNC_CRON"`

	// SearchMonths limits how far back the inbox is scanned.
	SearchMonths int `yaml:"search_months" json:"search_months" envconfig:"SEARCH_MONTHS"`

	// CalendarPath is the local ICS file that trains are synced into.
	CalendarPath string `yaml:"calendar_path" json:"calendar_path" envconfig:"CALENDAR_PATH"`

	// CalendarURL optionally points at a remote ICS feed. It is read-only
	// and only used for planning.
	CalendarURL string `yaml:"calendar_url,omitempty" json:"calendar_url,omitempty" envconfig:"CALENDAR_URL"`

	// CacheDir holds the HTTP cache of CalendarURL.
	CacheDir string `yaml:"cache_dir" json:"cache_dir" envconfig:"CACHE_DIR"`

	// InboxDir contains *.eml messages from the rail operator.
	InboxDir string `yaml:"inbox_dir" json:"inbox_dir" envconfig:"INBOX_DIR"`

	// DBPath is the sqlite database holding the OCR cache and run reports.
	DBPath string `yaml:"db_path" json:"db_path" envconfig:"DB_PATH"`

	// OCRCommand is the argv used to turn a PDF ticket into text. The
	// token "{}" is replaced by the PDF path; stdout is the ticket text.
	OCRCommand []string `yaml:"ocr_command" json:"ocr_command" envconfig:"OCR_COMMAND"`

	// ProductName is stamped into every created event description and is
	// how events owned by this tool are recognized.
	ProductName string `yaml:"product_name" json:"product_name" envconfig:"PRODUCT_NAME"`

	// BasicAuth, if non-nil, enables HTTP Basic Authentication on all endpoints
	// except /health.
	BasicAuth *BasicAuthConfig `yaml:"basic_auth,omitempty" json:"basic_auth,omitempty" ignored:"true"`
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		Listen:       defaultListen,
		Timezone:     defaultTimezone,
		LogLevel:     defaultLogLevel,
		SyncCron:     defaultSyncCron,
		SearchMonths: defaultSearchMonth,
		CalendarPath: filepath.Join(defaultDataDir, "trains.ics"),
		CacheDir:     filepath.Join(defaultDataDir, "ics-cache"),
		InboxDir:     filepath.Join(defaultDataDir, "inbox"),
		DBPath:       filepath.Join(defaultDataDir, "traincal.db"),
		OCRCommand:   []string{"pdftotext", "-layout", "{}", "-"},
		ProductName:  defaultProduct,
		BasicAuth:    nil,
	}
}

// Normalize fills in missing/zero values with sensible defaults so that
// partially-filled configs still behave correctly.
func (c *Config) Normalize() {
	def := DefaultConfig()
	if c.Listen == "" {
		c.Listen = def.Listen
	}
	if c.Timezone == "" {
		c.Timezone = def.Timezone
	}
	if c.LogLevel == "" {
		c.LogLevel = def.LogLevel
	}
	if c.SyncCron == "" {
		c.SyncCron = def.SyncCron
	}
	if c.SearchMonths <= 0 {
		c.SearchMonths = def.SearchMonths
	}
	if c.CalendarPath == "" {
		c.CalendarPath = def.CalendarPath
	}
	if c.CacheDir == "" {
		c.CacheDir = def.CacheDir
	}
	if c.InboxDir == "" {
		c.InboxDir = def.InboxDir
	}
	if c.DBPath == "" {
		c.DBPath = def.DBPath
	}
	if len(c.OCRCommand) == 0 {
		c.OCRCommand = def.OCRCommand
	}
	if c.ProductName == "" {
		c.ProductName = def.ProductName
	}
}

// Location resolves Timezone, falling back to UTC for unknown names.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Load loads configuration from the given YAML path and then applies
// TRAINCAL_* environment overrides.
//
// Behavior:
//   - If the file does not exist:
//   - create parent directory if needed
//   - write a default config with 0600 perms
//   - If the file exists:
//   - read YAML and unmarshal into Config
//   - normalize defaults
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	cfg, err := loadFile(path)
	if err != nil {
		return cfg, err
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, errors.Wrap(err, "apply environment overrides")
	}
	cfg.Normalize()

	return cfg, nil
}

func loadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			// First run: create default config file.
			cfg := DefaultConfig()
			if err := Save(path, cfg); err != nil {
				// Even if save fails, return cfg with error so caller can decide.
				return cfg, err
			}
			return cfg, nil
		}
		return nil, errors.Wrapf(err, "read config %s", path)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrapf(err, "parse config %s", path)
	}
	cfg.Normalize()
	return &cfg, nil
}

// Save writes the given configuration to the specified path.
//
// Implementation details:
//   - Ensures parent directory exists (0700).
//   - Writes atomically via a temp file + rename.
//   - Ensures final file permissions are 0600.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}

	cfg.Normalize()

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.Wrap(err, "marshal config")
	}
	return WriteFileAtomic(path, data, ".traincal-config-*.tmp")
}

// Save is a convenience method on Config that delegates to the package-level
// Save function.
func (c *Config) Save(path string) error {
	return Save(path, c)
}

// WriteFileAtomic writes data next to path under a temporary name and
// renames it into place with 0600 permissions. The calendar file uses the
// same routine.
func WriteFileAtomic(path string, data []byte, pattern string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return errors.Wrapf(err, "create directory %s", dir)
	}

	tmp, err := os.CreateTemp(dir, pattern)
	if err != nil {
		return errors.Wrap(err, "create temp file")
	}
	tmpName := tmp.Name()

	// Ensure we clean up temp file on error.
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errors.Wrap(err, "write temp file")
	}
	// Flush and close before chmod/rename.
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return errors.Wrap(err, "sync temp file")
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "close temp file")
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return errors.Wrap(err, "chmod temp file")
	}
	if err := os.Rename(tmpName, path); err != nil {
		return errors.Wrapf(err, "rename into %s", path)
	}
	return nil
}
