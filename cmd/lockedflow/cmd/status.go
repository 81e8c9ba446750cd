package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"lockedflow/internal/statusapi"
	"lockedflow/internal/storage"
	"lockedflow/internal/ui/display"
	"lockedflow/internal/ui/preferences"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the timer state and settings",
	Long: `Show the saved session and settings. When a running instance exposes the
status API its live reading is shown as well.`,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

type statusReport struct {
	Settings settingsView              `json:"settings"`
	Session  *sessionView              `json:"session,omitempty"`
	Live     *statusapi.StatusResponse `json:"live,omitempty"`
}

type settingsView struct {
	Target         string `json:"target"`
	TickInterval   string `json:"tick_interval"`
	IdlePause      string `json:"idle_pause"`
	RestoreOnStart bool   `json:"restore_on_start"`
	JournalEnabled bool   `json:"journal_enabled"`
	StatusAddress  string `json:"status_address,omitempty"`
}

type sessionView struct {
	Elapsed string    `json:"elapsed"`
	Target  string    `json:"target,omitempty"`
	SavedAt time.Time `json:"saved_at"`
}

func runStatus(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	settings, err := store.LoadSettings()
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}
	settings, err = applyOverrides(settings, viper.GetViper())
	if err != nil {
		return err
	}

	report := statusReport{Settings: newSettingsView(settings)}

	session, err := store.LoadSession()
	switch {
	case err == nil:
		view := newSessionView(session)
		report.Session = &view
	case !errors.Is(err, storage.ErrNoSession):
		return fmt.Errorf("failed to load session: %w", err)
	}

	if settings.StatusAddress != "" {
		if live, err := fetchLiveStatus(settings.StatusAddress); err == nil {
			report.Live = &live
		}
	}

	return writeStatus(os.Stdout, report, IsJSONOutput())
}

func fetchLiveStatus(address string) (statusapi.StatusResponse, error) {
	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get(fmt.Sprintf("http://%s/status", address))
	if err != nil {
		return statusapi.StatusResponse{}, fmt.Errorf("failed to connect to status API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return statusapi.StatusResponse{}, fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(body))
	}

	var live statusapi.StatusResponse
	if err := json.NewDecoder(resp.Body).Decode(&live); err != nil {
		return statusapi.StatusResponse{}, fmt.Errorf("failed to parse response: %w", err)
	}
	return live, nil
}

func newSettingsView(settings preferences.Settings) settingsView {
	view := settingsView{
		Target:         "off",
		TickInterval:   settings.TickInterval.String(),
		IdlePause:      "off",
		RestoreOnStart: settings.RestoreOnStart,
		JournalEnabled: settings.JournalEnabled,
		StatusAddress:  settings.StatusAddress,
	}
	if target, ok := settings.Target(); ok {
		view.Target = display.FormatDuration(target)
	}
	if settings.IdlePauseEnabled {
		view.IdlePause = "after " + settings.IdlePauseAfter.String()
	}
	return view
}

func newSessionView(session storage.Session) sessionView {
	view := sessionView{
		Elapsed: display.FormatDuration(session.Elapsed),
		SavedAt: session.SavedAt,
	}
	if session.HasTarget {
		view.Target = display.FormatDuration(session.Target)
	}
	return view
}

func writeStatus(w io.Writer, report statusReport, asJSON bool) error {
	if asJSON {
		output, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Fprintln(w, string(output))
		return nil
	}

	table := tablewriter.NewWriter(w)
	table.Header("Property", "Value")

	if report.Live != nil {
		table.Append([]string{"State", string(report.Live.State)})
		table.Append([]string{"Elapsed", display.FormatDuration(time.Duration(report.Live.ElapsedMs) * time.Millisecond)})
		if report.Live.TargetMs != nil {
			table.Append([]string{"Progress", fmt.Sprintf("%.0f%%", report.Live.Progress)})
		}
	}

	if report.Session != nil {
		table.Append([]string{"Saved elapsed", report.Session.Elapsed})
		if report.Session.Target != "" {
			table.Append([]string{"Saved target", report.Session.Target})
		}
		table.Append([]string{"Saved at", report.Session.SavedAt.Local().Format(time.RFC3339)})
	} else {
		table.Append([]string{"Saved session", "none"})
	}

	table.Append([]string{"Target", report.Settings.Target})
	table.Append([]string{"Tick interval", report.Settings.TickInterval})
	table.Append([]string{"Idle pause", report.Settings.IdlePause})
	table.Append([]string{"Restore on start", fmt.Sprintf("%t", report.Settings.RestoreOnStart)})
	table.Append([]string{"Journal", fmt.Sprintf("%t", report.Settings.JournalEnabled)})
	if report.Settings.StatusAddress != "" {
		table.Append([]string{"Status API", report.Settings.StatusAddress})
	}

	return table.Render()
}
