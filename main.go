// Package main provides the entry point for the Survey Markup application.
package main

import (
	"log"
	"os"
	"path/filepath"
	"strings"

	fyneapp "fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/dialog"

	"survey-markup/internal/app"
	"survey-markup/internal/background"
	"survey-markup/internal/version"
	"survey-markup/ui/mainwindow"
	"survey-markup/ui/prefs"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Printf("Starting Survey Markup v%s (built %s)", version.Version, version.BuildTime)

	fyneApp := fyneapp.NewWithID("io.surveymarkup.app")

	appState := app.NewState()
	appPrefs := prefs.Load()
	if url := appPrefs.String(prefs.KeyServerURL, ""); url != "" {
		appState.ConnectServer(url, appPrefs.String(prefs.KeyServerToken, ""))
	}

	win := mainwindow.New(fyneApp, appState, appPrefs)

	// Handle command line arguments: a project file or a photograph
	if len(os.Args) > 1 {
		path := os.Args[1]
		var err error
		switch {
		case strings.EqualFold(filepath.Ext(path), ".smproj"):
			err = appState.LoadProject(path)
		case background.IsSupportedFormat(path):
			err = appState.OpenImage(path)
		default:
			log.Printf("Unrecognized file type: %s", path)
		}
		if err != nil {
			log.Printf("Failed to open %s: %v", path, err)
		}
	}

	setupReload(win)

	win.ShowAndRun()
}

// setupReload configures automatic restart detection when the binary is
// recompiled during development.
func setupReload(win *mainwindow.MainWindow) {
	reloader := app.NewReloader()
	if reloader == nil {
		log.Println("Reload: unable to watch executable")
		return
	}

	reloader.OnNewBinary(func() {
		log.Println("Reload: newer binary detected")
		dialog.ShowConfirm("New Version Available",
			"The application binary has been updated.\nRestart now?",
			func(restart bool) {
				if restart {
					log.Println("Reload: restarting...")
					if err := reloader.Restart(); err != nil {
						log.Printf("Reload: restart failed: %v", err)
					}
					return
				}
				reloader.ResetBaseline()
				reloader.Start()
			}, win.Window)
	})

	reloader.Start()
}
