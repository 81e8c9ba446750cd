package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"lockedflow/internal/core/loop"
	"lockedflow/internal/core/timer"
	"lockedflow/internal/journal"
	"lockedflow/internal/metrics"
	"lockedflow/internal/platform"
	"lockedflow/internal/statusapi"
	"lockedflow/internal/storage"
	"lockedflow/internal/ui/display"
	"lockedflow/internal/ui/preferences"
	"lockedflow/internal/ui/tray"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/theme"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// runCmd opens the timer window
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Open the timer window",
	Long: `Open the timer window. If another instance is already running it is brought
to the front instead.`,
	RunE: runApp,
}

func init() {
	rootCmd.AddCommand(runCmd)

	rootCmd.Flags().String("target", "", "target as minutes or a duration like 1h30m (\"off\" disables)")
	rootCmd.Flags().String("status-addr", "", "status API listen address, e.g. 127.0.0.1:9425")
	rootCmd.Flags().String("tick", "", "display refresh interval, e.g. 250ms")
	runCmd.Flags().AddFlag(rootCmd.Flags().Lookup("target"))
	runCmd.Flags().AddFlag(rootCmd.Flags().Lookup("status-addr"))
	runCmd.Flags().AddFlag(rootCmd.Flags().Lookup("tick"))

	viper.BindPFlag("target", rootCmd.Flags().Lookup("target"))
	viper.BindPFlag("status_addr", rootCmd.Flags().Lookup("status-addr"))
	viper.BindPFlag("tick", rootCmd.Flags().Lookup("tick"))
}

func runApp(cmd *cobra.Command, args []string) error {
	guard, err := platform.AcquireSingleInstance(appName)
	if err != nil {
		if !errors.Is(err, platform.ErrAlreadyRunning) {
			return fmt.Errorf("single instance: %w", err)
		}
		if err := platform.WakeRunningInstance(appName); err != nil {
			return err
		}
		log.Printf("%s is already running", appName)
		return nil
	}
	defer func() {
		_ = guard.Release()
	}()

	store, err := openStore()
	if err != nil {
		return err
	}
	if err := store.EnsureDir(); err != nil {
		return err
	}

	settings, err := store.LoadSettings()
	if err != nil {
		log.Printf("settings: %v (using defaults)", err)
	}
	settings, err = applyOverrides(settings, viper.GetViper())
	if err != nil {
		return err
	}

	engine := timer.New(timer.Config{})
	if target, ok := settings.Target(); ok {
		engine.SetTargetDuration(target)
	}
	if settings.RestoreOnStart {
		restoreSession(store, engine)
	}
	// an explicit target override beats the restored session target
	if viper.IsSet("target") {
		if target, ok := settings.Target(); ok {
			engine.SetTargetDuration(target)
		} else {
			engine.ClearTargetDuration()
		}
	}

	driver := loop.New(engine, settings.LoopConfig())
	driver.SetIdleChecker(platform.NewIdleProvider())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	collector := metrics.NewCollector(driver)
	go collector.Run(driver.Subscribe(64))

	var recorderDone <-chan struct{}
	if settings.JournalEnabled {
		history, err := journal.Open(store.JournalPath())
		if err != nil {
			log.Printf("journal disabled: %v", err)
		} else {
			defer history.Close()
			recorder := journal.NewRecorder(history, log.New(os.Stderr, "[journal] ", log.LstdFlags))
			recorderDone = recorder.Start(ctx, driver.Subscribe(64))
		}
	}

	if settings.StatusAddress != "" {
		handler := statusapi.NewHandler(driver, metrics.NewRegistry(collector))
		server := statusapi.NewServer(settings.StatusAddress, handler, log.New(os.Stderr, "[status] ", log.LstdFlags))
		go func() {
			if err := server.ListenAndServe(); err != nil {
				log.Printf("%v", err)
			}
		}()
		defer func() {
			shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancelShutdown()
			_ = server.Shutdown(shutdownCtx)
		}()
	}

	runUI(driver, store, settings, guard)

	driver.Stop()
	// the recorder drains buffered events before the journal is closed
	if recorderDone != nil {
		<-recorderDone
	}
	engine.Pause()
	session := storage.SessionFromSnapshot(engine.Snapshot(), time.Now())
	if err := store.SaveSession(session); err != nil {
		log.Printf("save session: %v", err)
	}
	return nil
}

func restoreSession(store *storage.Store, engine *timer.Engine) {
	session, err := store.LoadSession()
	if err != nil {
		if !errors.Is(err, storage.ErrNoSession) {
			log.Printf("session: %v", err)
		}
		return
	}
	session.Restore(engine)
}

// runUI builds the windows and tray and blocks until the app quits.
func runUI(driver *loop.Driver, store *storage.Store, settings preferences.Settings, guard *platform.InstanceGuard) {
	fyneApp := app.NewWithID("com.lockedflow.app")
	fyneApp.SetIcon(theme.HistoryIcon())

	command := func(fn func(*timer.Engine)) func() {
		return func() {
			if err := driver.Do(context.Background(), fn); err != nil {
				log.Printf("timer command: %v", err)
			}
		}
	}

	mainWindow := display.New(fyneApp, display.Commands{
		OnStart: command((*timer.Engine).Start),
		OnPause: command((*timer.Engine).Pause),
		OnStop:  command((*timer.Engine).Stop),
		OnReset: command((*timer.Engine).Reset),
		OnSetTarget: func(target time.Duration) {
			command(func(engine *timer.Engine) { engine.SetTargetDuration(target) })()
		},
		OnClearTarget: command((*timer.Engine).ClearTargetDuration),
	})

	prefsWindow := preferences.New(fyneApp, settings, func(updated preferences.Settings) {
		settings = updated
		if err := store.SaveSettings(settings); err != nil {
			log.Printf("save settings: %v", err)
		}
		driver.UpdateConfig(settings.LoopConfig())
		target, hasTarget := settings.Target()
		command(func(engine *timer.Engine) {
			if hasTarget {
				engine.SetTargetDuration(target)
				return
			}
			engine.ClearTargetDuration()
		})()
		mainWindow.SetTargetText(target, hasTarget)
	})

	var trayManager *tray.Manager
	if desktopApp, ok := fyneApp.(desktop.App); ok {
		trayManager = tray.New(desktopApp, tray.Callbacks{
			OnShow:        mainWindow.Show,
			OnStart:       command((*timer.Engine).Start),
			OnPause:       command((*timer.Engine).Pause),
			OnStop:        command((*timer.Engine).Stop),
			OnReset:       command((*timer.Engine).Reset),
			OnPreferences: prefsWindow.Show,
			OnQuit:        fyneApp.Quit,
		})
		desktopApp.SetSystemTrayIcon(theme.HistoryIcon())
		mainWindow.SetCloseIntercept(mainWindow.Hide)
	} else {
		mainWindow.SetMaster()
	}

	events := driver.Subscribe(256)
	go func() {
		for event := range events {
			fyne.Do(func() {
				handleEvent(fyneApp, event, mainWindow, trayManager)
			})
		}
	}()
	go guard.Serve(func() {
		fyne.Do(mainWindow.Show)
	})

	driver.Start()
	snapshot := driver.Snapshot()
	mainWindow.Apply(snapshot)
	mainWindow.SetTargetText(snapshot.Target, snapshot.HasTarget)
	if trayManager != nil {
		trayManager.Apply(snapshot)
	}
	mainWindow.Show()
	fyneApp.Run()
}

func handleEvent(fyneApp fyne.App, event loop.Event, mainWindow *display.Window, trayManager *tray.Manager) {
	mainWindow.Apply(event.Snapshot)
	if trayManager != nil {
		trayManager.Apply(event.Snapshot)
	}

	switch event.Type {
	case loop.EventCompleted:
		fyneApp.SendNotification(fyne.NewNotification(appName,
			"Target reached after "+display.FormatDuration(event.Snapshot.Elapsed)))
	case loop.EventIdlePause:
		fyneApp.SendNotification(fyne.NewNotification(appName, "Timer "+event.Message))
	case loop.EventIdleError:
		log.Printf("idle detection: %s", event.Message)
	}
}
