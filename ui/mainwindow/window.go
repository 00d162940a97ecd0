// Package mainwindow provides the main application window.
package mainwindow

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"

	"survey-markup/internal/app"
	"survey-markup/internal/background"
	"survey-markup/internal/editor"
	"survey-markup/internal/render"
	"survey-markup/internal/version"
	"survey-markup/pkg/colorutil"
	"survey-markup/ui/canvas"
	"survey-markup/ui/panels"
	"survey-markup/ui/prefs"
)

const appTitle = "Survey Markup"

// MainWindow is the primary application window.
type MainWindow struct {
	fyne.Window
	app    fyne.App
	state  *app.State
	prefs  *prefs.Prefs
	canvas *canvas.AnnotationCanvas

	sideBox   *fyne.Container
	statusBar *widget.Label
}

// New creates a new main window.
func New(fyneApp fyne.App, state *app.State, preferences *prefs.Prefs) *MainWindow {
	win := fyneApp.NewWindow(appTitle)

	mw := &MainWindow{
		Window: win,
		app:    fyneApp,
		state:  state,
		prefs:  preferences,
	}

	mw.setupUI()
	mw.setupMenus()
	mw.setupShortcuts()
	mw.setupEventHandlers()
	mw.SetCloseIntercept(mw.confirmClose)

	return mw
}

// setupUI creates the main UI layout.
func (mw *MainWindow) setupUI() {
	mw.canvas = canvas.NewAnnotationCanvas(mw.state.Renderer)
	mw.statusBar = widget.NewLabel("Open a photograph to start")
	mw.sideBox = container.NewVBox(widget.NewLabel("No image"))

	mw.canvas.OnZoomChange(func(zoom float64) {
		mw.updateStatus(fmt.Sprintf("Zoom: %.0f%%", zoom*100))
	})

	zoomBar := container.NewHBox(
		widget.NewLabel("Zoom:"),
		widget.NewButton("-", mw.canvas.ZoomOut),
		widget.NewButton("+", mw.canvas.ZoomIn),
		widget.NewButton("Fit", mw.canvas.FitToWindow),
		widget.NewButton("1:1", func() { mw.canvas.SetZoom(1.0) }),
	)

	canvasArea := container.NewBorder(zoomBar, nil, nil, nil, mw.canvas.Container())

	split := container.NewHSplit(container.NewVScroll(mw.sideBox), canvasArea)
	split.SetOffset(0.2)

	content := container.NewBorder(
		nil,
		container.NewPadded(mw.statusBar),
		nil,
		nil,
		split,
	)

	mw.SetContent(content)
	mw.Resize(fyne.NewSize(1200, 800))
}

// attachEditor binds a freshly opened document's editor to the canvas and
// rebuilds the side panels around it.
func (mw *MainWindow) attachEditor() {
	ed := mw.state.Editor
	bg := mw.state.Background
	if ed == nil || bg == nil {
		return
	}

	mw.applyStylePrefs(ed)
	mw.canvas.Attach(ed, bg)

	toolbar := panels.NewToolbar(ed)
	style := panels.NewStylePanel(ed)
	mw.sideBox.Objects = []fyne.CanvasObject{
		widget.NewLabel("Tools"),
		toolbar.Container(),
		widget.NewSeparator(),
		style.Container(),
	}
	mw.sideBox.Refresh()

	ed.On(editor.EventTextPrompt, func(interface{}) {
		mw.promptForText(ed)
	})
	ed.On(editor.EventDocumentChanged, func(interface{}) {
		mw.refreshTitle()
	})

	mw.refreshTitle()
	mw.canvas.FitToWindow()
}

// applyStylePrefs seeds a new editor with the persisted style defaults.
func (mw *MainWindow) applyStylePrefs(ed *editor.Editor) {
	style := ed.DefaultStyle()
	if c, err := colorutil.ParseHex(mw.prefs.String(prefs.KeyStrokeColor, "")); err == nil {
		style.Stroke = c
	}
	style.StrokeWidth = mw.prefs.Float(prefs.KeyStrokeWidth, style.StrokeWidth)
	ed.SetStyle(style)
	ed.SetFontSize(mw.prefs.Float(prefs.KeyFontSize, ed.FontSize()))
}

// promptForText asks for the content of a text label being placed.
func (mw *MainWindow) promptForText(ed *editor.Editor) {
	entry := widget.NewEntry()
	d := dialog.NewForm("Add Label", "Add", "Cancel",
		[]*widget.FormItem{widget.NewFormItem("Text", entry)},
		func(ok bool) {
			if !ok {
				ed.CancelText()
				return
			}
			ed.CommitText(entry.Text)
		}, mw.Window)
	d.Resize(fyne.NewSize(360, 140))
	d.Show()
}

// setupMenus creates the application menus.
func (mw *MainWindow) setupMenus() {
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Open Image...", mw.onOpenImage),
		fyne.NewMenuItem("Open Project...", mw.onOpenProject),
		fyne.NewMenuItem("Open from Server...", mw.onOpenRemote),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Save Project", mw.onSaveProject),
		fyne.NewMenuItem("Save Project As...", mw.onSaveProjectAs),
		fyne.NewMenuItem("Save to Server", mw.onSaveRemote),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Export Image...", mw.onExport),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", func() { mw.confirmClose() }),
	)

	editMenu := fyne.NewMenu("Edit",
		fyne.NewMenuItem("Undo", mw.onUndo),
		fyne.NewMenuItem("Redo", mw.onRedo),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Delete Selected", mw.onDeleteSelected),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Server Settings...", mw.onServerSettings),
	)

	viewMenu := fyne.NewMenu("View",
		fyne.NewMenuItem("Zoom In", mw.canvas.ZoomIn),
		fyne.NewMenuItem("Zoom Out", mw.canvas.ZoomOut),
		fyne.NewMenuItem("Fit to Window", mw.canvas.FitToWindow),
		fyne.NewMenuItem("Actual Size", func() { mw.canvas.SetZoom(1.0) }),
	)

	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", mw.onAbout),
	)

	mw.SetMainMenu(fyne.NewMainMenu(fileMenu, editMenu, viewMenu, helpMenu))
}

// setupShortcuts binds the editing keyboard shortcuts.
func (mw *MainWindow) setupShortcuts() {
	c := mw.Canvas()
	c.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyZ, Modifier: fyne.KeyModifierControl},
		func(fyne.Shortcut) { mw.onUndo() })
	c.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyY, Modifier: fyne.KeyModifierControl},
		func(fyne.Shortcut) { mw.onRedo() })
	c.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyZ, Modifier: fyne.KeyModifierControl | fyne.KeyModifierShift},
		func(fyne.Shortcut) { mw.onRedo() })
	c.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyS, Modifier: fyne.KeyModifierControl},
		func(fyne.Shortcut) { mw.onSaveProject() })
	c.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyE, Modifier: fyne.KeyModifierControl},
		func(fyne.Shortcut) { mw.onExport() })
}

// setupEventHandlers registers for application events.
func (mw *MainWindow) setupEventHandlers() {
	mw.state.On(app.EventImageLoaded, func(data interface{}) {
		mw.attachEditor()
		if bg, ok := data.(*background.Background); ok {
			mw.updateStatus(fmt.Sprintf("Loaded %s (%dx%d)", bg.Ref, bg.Width(), bg.Height()))
		}
	})

	mw.state.On(app.EventProjectLoaded, func(data interface{}) {
		mw.attachEditor()
		if path, ok := data.(string); ok {
			mw.updateStatus("Project loaded: " + path)
		}
	})

	mw.state.On(app.EventProjectSaved, func(data interface{}) {
		mw.refreshTitle()
		if path, ok := data.(string); ok {
			mw.updateStatus("Saved " + path)
		}
	})

	mw.state.On(app.EventAnnotationsSaved, func(interface{}) {
		mw.refreshTitle()
		mw.updateStatus("Annotations uploaded")
	})

	mw.state.On(app.EventExportComplete, func(data interface{}) {
		mw.updateStatus("Export complete")
	})
}

func (mw *MainWindow) updateStatus(text string) {
	mw.statusBar.SetText(text)
}

// refreshTitle shows the open image and a dirty marker.
func (mw *MainWindow) refreshTitle() {
	title := appTitle
	if mw.state.Background != nil {
		title += " - " + filepath.Base(mw.state.Background.Ref)
	}
	if mw.state.Editor != nil && mw.state.Editor.Dirty() {
		title += " *"
	}
	mw.SetTitle(title)
}

// confirmClose prompts before discarding unsaved annotations.
func (mw *MainWindow) confirmClose() {
	if mw.state.Editor == nil || !mw.state.Editor.Dirty() {
		mw.app.Quit()
		return
	}
	dialog.ShowConfirm("Unsaved Changes",
		"There are unsaved annotations. Quit anyway?",
		func(quit bool) {
			if quit {
				mw.app.Quit()
			}
		}, mw.Window)
}

// getLastDir returns the last used directory as a ListableURI, or nil.
func (mw *MainWindow) getLastDir() fyne.ListableURI {
	path := mw.prefs.String(prefs.KeyLastDir, "")
	if path == "" {
		return nil
	}
	uri := storage.NewFileURI(path)
	listable, err := storage.ListerForURI(uri)
	if err != nil {
		return nil
	}
	return listable
}

// saveLastDir saves the directory of the given file path.
func (mw *MainWindow) saveLastDir(filePath string) {
	mw.prefs.SetString(prefs.KeyLastDir, filepath.Dir(filePath))
	_ = mw.prefs.Save()
}

// Menu action handlers

func (mw *MainWindow) onOpenImage() {
	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		reader.Close()
		path := reader.URI().Path()
		mw.saveLastDir(path)
		if err := mw.state.OpenImage(path); err != nil {
			dialog.ShowError(err, mw.Window)
		}
	}, mw.Window)
	fd.SetFilter(storage.NewExtensionFileFilter(background.SupportedFormats()))
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (mw *MainWindow) onOpenProject() {
	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		reader.Close()
		path := reader.URI().Path()
		mw.saveLastDir(path)
		if err := mw.state.LoadProject(path); err != nil {
			dialog.ShowError(err, mw.Window)
		}
	}, mw.Window)
	fd.SetFilter(storage.NewExtensionFileFilter([]string{".smproj"}))
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (mw *MainWindow) onOpenRemote() {
	entry := widget.NewEntry()
	entry.SetPlaceHolder("site42/north-wall.jpg")
	dialog.ShowForm("Open from Server", "Open", "Cancel",
		[]*widget.FormItem{widget.NewFormItem("Image reference", entry)},
		func(ok bool) {
			if !ok || entry.Text == "" {
				return
			}
			if err := mw.state.OpenRemote(context.Background(), entry.Text); err != nil {
				dialog.ShowError(err, mw.Window)
			}
		}, mw.Window)
}

func (mw *MainWindow) onSaveProject() {
	if mw.state.ProjectPath == "" {
		mw.onSaveProjectAs()
		return
	}
	if err := mw.state.SaveProject(mw.state.ProjectPath); err != nil {
		dialog.ShowError(err, mw.Window)
	}
}

func (mw *MainWindow) onSaveProjectAs() {
	fd := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		writer.Close()
		path := writer.URI().Path()
		if filepath.Ext(path) != ".smproj" {
			path += ".smproj"
		}
		mw.saveLastDir(path)
		if err := mw.state.SaveProject(path); err != nil {
			dialog.ShowError(err, mw.Window)
		}
	}, mw.Window)
	fd.SetFileName("project.smproj")
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (mw *MainWindow) onSaveRemote() {
	if err := mw.state.SaveRemote(context.Background()); err != nil {
		dialog.ShowError(err, mw.Window)
	}
}

func (mw *MainWindow) onExport() {
	if mw.state.Editor == nil {
		mw.updateStatus("Nothing to export")
		return
	}

	formatSelect := widget.NewSelect([]string{"png", "jpeg"}, nil)
	formatSelect.SetSelected(mw.prefs.String(prefs.KeyExportFormat, "png"))
	scaleEntry := widget.NewEntry()
	scaleEntry.SetText(strconv.FormatFloat(mw.prefs.Float(prefs.KeyExportScale, 1), 'f', -1, 64))

	dialog.ShowForm("Export Image", "Export", "Cancel",
		[]*widget.FormItem{
			widget.NewFormItem("Format", formatSelect),
			widget.NewFormItem("Scale", scaleEntry),
		},
		func(ok bool) {
			if !ok {
				return
			}
			opts := render.DefaultOptions()
			opts.Format = formatSelect.Selected
			if scale, err := strconv.ParseFloat(scaleEntry.Text, 64); err == nil && scale > 0 {
				opts.Scale = scale
			}
			mw.prefs.SetString(prefs.KeyExportFormat, opts.Format)
			mw.prefs.SetFloat(prefs.KeyExportScale, opts.Scale)
			_ = mw.prefs.Save()
			mw.exportTo(opts)
		}, mw.Window)
}

func (mw *MainWindow) exportTo(opts render.Options) {
	fd := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		writer.Close()
		path := writer.URI().Path()
		mw.saveLastDir(path)

		f, err := os.Create(path)
		if err != nil {
			dialog.ShowError(err, mw.Window)
			return
		}
		defer f.Close()
		if err := mw.state.Export(context.Background(), f, opts); err != nil {
			dialog.ShowError(err, mw.Window)
		}
	}, mw.Window)
	fd.SetFileName(render.SuggestedFilename(mw.state.Background.Ref, opts.Format))
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (mw *MainWindow) onUndo() {
	if mw.state.Editor != nil {
		mw.state.Editor.Undo()
	}
}

func (mw *MainWindow) onRedo() {
	if mw.state.Editor != nil {
		mw.state.Editor.Redo()
	}
}

func (mw *MainWindow) onDeleteSelected() {
	if mw.state.Editor != nil {
		mw.state.Editor.DeleteSelected()
	}
}

func (mw *MainWindow) onServerSettings() {
	urlEntry := widget.NewEntry()
	urlEntry.SetText(mw.prefs.String(prefs.KeyServerURL, ""))
	tokenEntry := widget.NewPasswordEntry()
	tokenEntry.SetText(mw.prefs.String(prefs.KeyServerToken, ""))

	dialog.ShowForm("Server Settings", "Save", "Cancel",
		[]*widget.FormItem{
			widget.NewFormItem("Server URL", urlEntry),
			widget.NewFormItem("Access token", tokenEntry),
		},
		func(ok bool) {
			if !ok {
				return
			}
			mw.prefs.SetString(prefs.KeyServerURL, urlEntry.Text)
			mw.prefs.SetString(prefs.KeyServerToken, tokenEntry.Text)
			_ = mw.prefs.Save()
			if urlEntry.Text != "" {
				mw.state.ConnectServer(urlEntry.Text, tokenEntry.Text)
			}
		}, mw.Window)
}

func (mw *MainWindow) onAbout() {
	dialog.ShowInformation("About Survey Markup",
		fmt.Sprintf("Survey Markup v%s\n\n"+
			"Annotate construction site photographs with dimensions,\n"+
			"arrows, regions, and text labels.\n\n"+
			"Built: %s\n"+
			"Commit: %s",
			version.Version, version.BuildTime, version.GitCommit),
		mw.Window)
}
