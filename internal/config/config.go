package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/Flyrell/punchclock/internal/attendance"
)

const (
	DefaultTimeZone = "Asia/Kolkata"
	dirName         = ".punchclock"
	configFile      = "config.json"
	databaseFile    = "attendance.db"
	logFile         = "punchclock.log"
)

// Config keys accepted by Get and Set.
const (
	KeyTimeZone       = "timezone"
	KeyDatabase       = "database"
	KeyLateAfter      = "late_after"
	KeyEarlyOutBefore = "early_out_before"
	KeyOvertimeAfter  = "overtime_after"
)

// UTC+05:30, +05:30, UTC-3, utc+0530
var offsetZone = regexp.MustCompile(`^(?i:utc|gmt)?([+-])(\d{1,2})(?::?(\d{2}))?$`)

// Config is the on-disk kiosk configuration.
type Config struct {
	TimeZone       string `json:"timezone"`
	Database       string `json:"database,omitempty"`
	LateAfter      string `json:"late_after"`
	EarlyOutBefore string `json:"early_out_before"`
	OvertimeAfter  string `json:"overtime_after"`
}

// Dir returns the punchclock directory under homeDir.
func Dir(homeDir string) string {
	return filepath.Join(homeDir, dirName)
}

// Path returns the default config file path.
func Path(homeDir string) string {
	return filepath.Join(Dir(homeDir), configFile)
}

// DefaultDatabasePath returns where the ledger lives unless configured otherwise.
func DefaultDatabasePath(homeDir string) string {
	return filepath.Join(Dir(homeDir), databaseFile)
}

// LogPath returns the JSON log file path.
func LogPath(homeDir string) string {
	return filepath.Join(Dir(homeDir), logFile)
}

// Default returns the standard configuration.
func Default() *Config {
	return &Config{
		TimeZone:       DefaultTimeZone,
		LateAfter:      attendance.DefaultLateAfter.String(),
		EarlyOutBefore: attendance.DefaultEarlyOutBefore.String(),
		OvertimeAfter:  attendance.DefaultOvertimeAfter.String(),
	}
}

// Read loads the config at path. A missing file yields the defaults, and
// blank fields fall back to their defaults.
func Read(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}

	var onDisk Config
	if err := json.Unmarshal(data, &onDisk); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	if onDisk.TimeZone != "" {
		cfg.TimeZone = onDisk.TimeZone
	}
	cfg.Database = onDisk.Database
	if onDisk.LateAfter != "" {
		cfg.LateAfter = onDisk.LateAfter
	}
	if onDisk.EarlyOutBefore != "" {
		cfg.EarlyOutBefore = onDisk.EarlyOutBefore
	}
	if onDisk.OvertimeAfter != "" {
		cfg.OvertimeAfter = onDisk.OvertimeAfter
	}
	return cfg, nil
}

// Write saves cfg to path, creating the directory if needed.
func Write(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0644)
}

// DatabasePath resolves the ledger location, expanding a leading "~/".
func (c *Config) DatabasePath(homeDir string) string {
	switch {
	case c.Database == "":
		return DefaultDatabasePath(homeDir)
	case strings.HasPrefix(c.Database, "~/"):
		return filepath.Join(homeDir, c.Database[2:])
	}
	return c.Database
}

// Policy builds the attendance policy described by c.
func (c *Config) Policy() (attendance.Policy, error) {
	loc, err := LoadLocation(c.TimeZone)
	if err != nil {
		return attendance.Policy{}, err
	}

	p := attendance.Policy{Location: loc}
	fields := []struct {
		key string
		raw string
		dst *attendance.TimeOfDay
	}{
		{KeyLateAfter, c.LateAfter, &p.LateAfter},
		{KeyEarlyOutBefore, c.EarlyOutBefore, &p.EarlyOutBefore},
		{KeyOvertimeAfter, c.OvertimeAfter, &p.OvertimeAfter},
	}
	for _, f := range fields {
		tod, err := attendance.ParseTimeOfDay(f.raw)
		if err != nil {
			return attendance.Policy{}, fmt.Errorf("%s: %w", f.key, err)
		}
		*f.dst = tod
	}

	if err := p.Validate(); err != nil {
		return attendance.Policy{}, err
	}
	return p, nil
}

// Keys lists the settable keys in display order.
func Keys() []string {
	return []string{KeyTimeZone, KeyDatabase, KeyLateAfter, KeyEarlyOutBefore, KeyOvertimeAfter}
}

// Get returns the raw value for key.
func (c *Config) Get(key string) (string, error) {
	switch key {
	case KeyTimeZone:
		return c.TimeZone, nil
	case KeyDatabase:
		return c.Database, nil
	case KeyLateAfter:
		return c.LateAfter, nil
	case KeyEarlyOutBefore:
		return c.EarlyOutBefore, nil
	case KeyOvertimeAfter:
		return c.OvertimeAfter, nil
	}
	return "", unknownKey(key)
}

// Set validates and applies value for key. Times are stored canonically as
// HH:MM:SS. On error c is left unchanged.
func (c *Config) Set(key, value string) error {
	next := *c
	value = strings.TrimSpace(value)

	switch key {
	case KeyTimeZone:
		if _, err := LoadLocation(value); err != nil {
			return err
		}
		next.TimeZone = value
	case KeyDatabase:
		next.Database = value
	case KeyLateAfter, KeyEarlyOutBefore, KeyOvertimeAfter:
		tod, err := attendance.ParseTimeOfDay(value)
		if err != nil {
			return err
		}
		switch key {
		case KeyLateAfter:
			next.LateAfter = tod.String()
		case KeyEarlyOutBefore:
			next.EarlyOutBefore = tod.String()
		default:
			next.OvertimeAfter = tod.String()
		}
	default:
		return unknownKey(key)
	}

	if _, err := next.Policy(); err != nil {
		return err
	}
	*c = next
	return nil
}

// LoadLocation resolves an IANA zone name or a fixed UTC offset such as
// "UTC+05:30" or "-03:00".
func LoadLocation(name string) (*time.Location, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("time zone is empty")
	}

	if m := offsetZone.FindStringSubmatch(name); m != nil {
		hours, _ := strconv.Atoi(m[2])
		mins := 0
		if m[3] != "" {
			mins, _ = strconv.Atoi(m[3])
		}
		if hours > 14 || mins > 59 {
			return nil, fmt.Errorf("offset %q out of range", name)
		}
		secs := hours*3600 + mins*60
		if m[1] == "-" {
			secs = -secs
		}
		return time.FixedZone(fmt.Sprintf("UTC%s%02d:%02d", m[1], hours, mins), secs), nil
	}

	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("unknown time zone %q", name)
	}
	return loc, nil
}

func unknownKey(key string) error {
	keys := Keys()
	sort.Strings(keys)
	return fmt.Errorf("unknown config key %q (valid: %s)", key, strings.Join(keys, ", "))
}
