package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/cvemirror/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and change the feed, storage, server and scheduler settings.

Environment variables (NVD_BASE_URL, NVD_API_KEY, NVD_PAGE_SIZE, NVD_TIMEOUT,
CVEMIRROR_DATA_DIR, PORT, SYNC_INTERVAL) override stored values for the
current process only.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change a setting",
	Long: `Change one setting and save it to the config file.

Keys:
  feed.base_url            feed endpoint URL
  feed.page_size           records requested per page (1-2000)
  feed.timeout             per-request timeout, e.g. 90s
  storage.data_dir         database directory
  server.addr              HTTP listen address, e.g. :3000
  scheduler.enabled        true or false
  scheduler.sync_interval  time between scheduled syncs, e.g. 6h`,
	Args: cobra.ExactArgs(2),
	RunE: runSettingsSet,
}

var settingsAPIKeyCmd = &cobra.Command{
	Use:   "api-key",
	Short: "Set the NVD API key",
	Long: `Prompt for the NVD API key and save it. A key raises the feed's rate
limit from 5 to 50 requests per 30 seconds. Enter an empty key to keep the
current one.`,
	Args: cobra.NoArgs,
	RunE: runSettingsAPIKey,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsAPIKeyCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if err := ensureServices(); err != nil {
		return err
	}
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Feed]")
	cmd.Printf("  Base URL: %s\n", settings.Feed.BaseURL)
	if settings.Feed.APIKey != "" {
		cmd.Printf("  API Key: %s\n", maskAPIKey(settings.Feed.APIKey))
	} else {
		cmd.Printf("  API Key: (not set)\n")
	}
	cmd.Printf("  Page Size: %d\n", settings.Feed.PageSize)
	cmd.Printf("  Timeout: %s\n", settings.Feed.Timeout)
	cmd.Println()

	cmd.Println("[Storage]")
	if settings.Storage.DataDir != "" {
		cmd.Printf("  Data Directory: %s\n", settings.Storage.DataDir)
	} else {
		cmd.Printf("  Data Directory: (default)\n")
	}
	cmd.Println()

	cmd.Println("[Server]")
	cmd.Printf("  Address: %s\n", settings.Server.Addr)
	cmd.Println()

	cmd.Println("[Scheduler]")
	if settings.Scheduler.Enabled {
		cmd.Printf("  Enabled: yes\n")
	} else {
		cmd.Printf("  Enabled: no\n")
	}
	cmd.Printf("  Sync Interval: %s\n", settings.Scheduler.GetTaskConfig(domain.TaskIDCVESync).Interval)

	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if err := ensureServices(); err != nil {
		return err
	}
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	key, value := args[0], strings.TrimSpace(args[1])
	if err := applySetting(settings, key, value); err != nil {
		return err
	}

	if err := settingsService.Save(settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	cmd.Printf("%s set to %s\n", key, value)
	return nil
}

func runSettingsAPIKey(cmd *cobra.Command, _ []string) error {
	if err := ensureServices(); err != nil {
		return err
	}
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Print("NVD API key: ")
	key := readPassword(cmd.InOrStdin())
	cmd.Println()

	if key == "" {
		cmd.Println("API key unchanged.")
		return nil
	}

	settings.Feed.APIKey = key
	if err := settingsService.Save(settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	cmd.Printf("API key saved (%s).\n", maskAPIKey(key))
	return nil
}

// applySetting writes one key into settings.
func applySetting(settings *domain.Settings, key, value string) error {
	switch key {
	case "feed.base_url":
		settings.Feed.BaseURL = value
	case "feed.page_size":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%w: %s must be a number", domain.ErrInvalidInput, key)
		}
		settings.Feed.PageSize = n
	case "feed.timeout":
		d, err := parsePositiveDuration(key, value)
		if err != nil {
			return err
		}
		settings.Feed.Timeout = d
	case "storage.data_dir":
		settings.Storage.DataDir = value
	case "server.addr":
		settings.Server.Addr = value
	case "scheduler.enabled":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%w: %s must be true or false", domain.ErrInvalidInput, key)
		}
		settings.Scheduler.Enabled = b
	case "scheduler.sync_interval":
		d, err := parsePositiveDuration(key, value)
		if err != nil {
			return err
		}
		task := settings.Scheduler.GetTaskConfig(domain.TaskIDCVESync)
		task.Interval = d
		if settings.Scheduler.TaskConfigs == nil {
			settings.Scheduler.TaskConfigs = make(map[string]domain.TaskConfig)
		}
		settings.Scheduler.TaskConfigs[domain.TaskIDCVESync] = task
	case "feed.api_key":
		return errors.New("use 'cvemirror settings api-key' to set the API key")
	default:
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}
	return nil
}

func parsePositiveDuration(key, value string) (time.Duration, error) {
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("%w: %s must be a positive duration such as 90s or 6h", domain.ErrInvalidInput, key)
	}
	return d, nil
}

// readPassword reads a line without echo when in is a terminal.
//
//nolint:errcheck // CLI helper, error ignored for UX
func readPassword(in io.Reader) string {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		password, err := term.ReadPassword(int(f.Fd()))
		if err == nil {
			return strings.TrimSpace(string(password))
		}
	}
	reader := bufio.NewReader(in)
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
