package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/Flyrell/punchclock/internal/config"
	"github.com/Flyrell/punchclock/internal/hashutil"
	"github.com/Flyrell/punchclock/internal/kiosk"
	"github.com/Flyrell/punchclock/internal/ledger"
	"github.com/spf13/cobra"
)

// sessionOptions are the global flags that shape a session.
type sessionOptions struct {
	configPath string
	dbPath     string
	debug      bool
	stderr     io.Writer
}

// session owns everything one command invocation needs. Close it when done.
type session struct {
	config  *config.Config
	logger  *slog.Logger
	ledger  *ledger.Ledger
	service *kiosk.Service
	logFile io.Closer
}

func (s *session) Close() error {
	err := s.ledger.Close()
	if s.logFile != nil {
		_ = s.logFile.Close()
	}
	return err
}

// getHomeDir returns the user's home directory.
func getHomeDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return homeDir, nil
}

func optionsFromFlags(cmd *cobra.Command) sessionOptions {
	configPath, _ := cmd.Flags().GetString("config")
	dbPath, _ := cmd.Flags().GetString("db")
	debug, _ := cmd.Flags().GetBool("debug")
	return sessionOptions{
		configPath: configPath,
		dbPath:     dbPath,
		debug:      debug,
		stderr:     cmd.ErrOrStderr(),
	}
}

// resolveConfigPath honors --config, falling back to ~/.punchclock/config.json.
func resolveConfigPath(homeDir, flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	return config.Path(homeDir)
}

// openSession builds a session from the command's global flags.
func openSession(cmd *cobra.Command) (*session, error) {
	homeDir, err := getHomeDir()
	if err != nil {
		return nil, err
	}
	return newSession(commandContext(cmd), homeDir, optionsFromFlags(cmd), time.Now)
}

func newSession(ctx context.Context, homeDir string, opts sessionOptions, nowFn func() time.Time) (*session, error) {
	cfg, err := config.Read(resolveConfigPath(homeDir, opts.configPath))
	if err != nil {
		return nil, err
	}

	policy, err := cfg.Policy()
	if err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	logger, logFile := newLogger(homeDir, opts.debug, opts.stderr)
	logger = logger.With(slog.String("run", runID(nowFn())))

	dbPath := opts.dbPath
	if dbPath == "" {
		dbPath = cfg.DatabasePath(homeDir)
	}

	l, err := ledger.Open(ctx, dbPath, ledger.WithLogger(logger))
	if err != nil {
		if logFile != nil {
			_ = logFile.Close()
		}
		return nil, err
	}
	logger.Debug("ledger opened", slog.String("path", dbPath), slog.String("timezone", cfg.TimeZone))

	return &session{
		config:  cfg,
		logger:  logger,
		ledger:  l,
		service: kiosk.New(l, policy, kiosk.WithClock(nowFn), kiosk.WithLogger(logger)),
		logFile: logFile,
	}, nil
}

// newLogger writes JSON lines to ~/.punchclock/punchclock.log, and to stderr
// at debug level when debug is set. A log file that cannot be opened is
// reported and skipped.
func newLogger(homeDir string, debug bool, stderr io.Writer) (*slog.Logger, io.Closer) {
	var writers []io.Writer
	var logFile *os.File

	if debug && stderr != nil {
		writers = append(writers, stderr)
	}

	logPath := config.LogPath(homeDir)
	if err := os.MkdirAll(filepath.Dir(logPath), 0755); err == nil {
		f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
		if err == nil {
			writers = append(writers, f)
			logFile = f
		} else if stderr != nil {
			_, _ = fmt.Fprintln(stderr, Warning("could not open log file "+logPath+": "+err.Error()))
		}
	}

	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	handler := slog.NewJSONHandler(io.MultiWriter(writers...), &slog.HandlerOptions{
		Level:     level,
		AddSource: debug,
	})
	if logFile == nil {
		return slog.New(handler), nil
	}
	return slog.New(handler), logFile
}

// runID tags every log line of one invocation so concurrent kiosks sharing a
// log file can be told apart.
func runID(now time.Time) string {
	host, _ := os.Hostname()
	return hashutil.ShortID(host, strconv.Itoa(os.Getpid()), strconv.FormatInt(now.UnixNano(), 10))
}

// commandContext returns the command's context, or Background when the
// command was not started through Execute.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
