package main

import (
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"fridgectl/internal/config"
	"fridgectl/internal/fridge"
	"fridgectl/internal/logging"
	"fridgectl/internal/mirror"
	"fridgectl/internal/notify"
	"fridgectl/internal/reconcile"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) configValue() *config.Config {
	cfg, _ := c.ensureConfig()
	return cfg
}

// ensureLogger builds the shared CLI logger. Output goes to stderr and the
// log file so stdout stays clean for tables and prompts.
func (c *commandContext) ensureLogger() *slog.Logger {
	c.loggerOnce.Do(func() {
		cfg := c.configValue()
		if cfg == nil {
			c.logger = logging.NewNop()
			return
		}
		logger, err := logging.NewFromConfig(cfg)
		if err != nil {
			c.logger = logging.NewNop()
			return
		}
		c.logger = logger
	})
	return c.logger
}

func (c *commandContext) newBackend() (*fridge.Client, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return fridge.NewClient(cfg.Server, fridge.WithLogger(c.ensureLogger())), nil
}

func (c *commandContext) withMirror(fn func(*mirror.Store) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	store, err := mirror.Open(cfg, c.ensureLogger())
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(store)
}

// withEngine wires the backend, the mirror store, and a console notifier
// into a reconciliation engine for the duration of fn.
func (c *commandContext) withEngine(cmd *cobra.Command, fn func(*reconcile.Engine, *fridge.Client, *mirror.Store) error) error {
	backend, err := c.newBackend()
	if err != nil {
		return err
	}
	cfg := c.configValue()
	return c.withMirror(func(store *mirror.Store) error {
		dismiss := time.Duration(cfg.Notifications.AutoDismissMS) * time.Millisecond
		notifier := &consoleNotifier{
			out:        cmd.OutOrStdout(),
			dispatcher: notify.NewDispatcher(dismiss, c.ensureLogger()),
		}
		engine := reconcile.NewEngine(backend, store,
			reconcile.WithNotifier(notifier),
			reconcile.WithLogger(c.ensureLogger()))
		return fn(engine, backend, store)
	})
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
