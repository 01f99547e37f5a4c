package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/maraval/veogallery/internal/auth"
	"github.com/maraval/veogallery/internal/favorites"
	"github.com/maraval/veogallery/internal/gallery"
	"github.com/maraval/veogallery/internal/logger"
	"github.com/maraval/veogallery/internal/metadata"
	"github.com/maraval/veogallery/internal/veo"
	"github.com/maraval/veogallery/internal/version"
)

type largeTheme struct{ fyne.Theme }

func (m largeTheme) Size(n fyne.ThemeSizeName) float32 {
	switch n {
	case theme.SizeNameText:
		return 14
	case theme.SizeNameHeadingText:
		return 22
	default:
		return m.Theme.Size(n)
	}
}

type AppState int

const (
	StateBrowsing AppState = iota
	StateSaving
	StateNoKey
)

type galleryApp struct {
	window  fyne.Window
	state   AppState
	content *fyne.Container

	session *gallery.Session
	service *remoteService
	refiner *guiRefiner
	config  AppConfig

	// UI Components
	browseView  fyne.CanvasObject
	savingView  fyne.CanvasObject
	apiKeyView  fyne.CanvasObject
	grid        *fyne.Container
	searchEntry *widget.Entry
	tabButtons  map[gallery.Tab]*widget.Button

	// Runtime data
	sessionKey         string
	currentSettingsWin fyne.Window
	cancelMu           sync.Mutex
	activeCancel       context.CancelFunc
	activeCancelID     uint64
	panicNoticeOnce    sync.Once
}

func newGalleryApp(w fyne.Window) *galleryApp {
	a := &galleryApp{
		window:  w,
		service: &remoteService{},
		refiner: &guiRefiner{},
	}
	favs := favorites.Load(&prefsBackend{prefs: fyne.CurrentApp().Preferences()})
	a.session = gallery.NewSession(gallery.Samples(), favs, a.service, a.refiner, nil)

	a.loadConfig()
	a.setupUI()
	a.syncKeyState()
	return a
}

func (a *galleryApp) setActiveCancel(cancel context.CancelFunc) uint64 {
	a.cancelMu.Lock()
	if a.activeCancel != nil {
		a.activeCancel()
	}
	a.activeCancel = cancel
	a.activeCancelID++
	id := a.activeCancelID
	a.cancelMu.Unlock()
	return id
}

func (a *galleryApp) clearActiveCancel(id uint64) {
	a.cancelMu.Lock()
	if a.activeCancelID == id {
		a.activeCancel = nil
	}
	a.cancelMu.Unlock()
}

func (a *galleryApp) cancelActive(reason string) {
	a.cancelMu.Lock()
	cancel := a.activeCancel
	a.activeCancel = nil
	a.cancelMu.Unlock()
	if cancel != nil {
		logger.Info("Canceling active generation", "reason", reason)
		cancel()
	}
}

func (a *galleryApp) syncKeyState() {
	if a.sessionKey != "" {
		a.setState(StateBrowsing)
		return
	}
	if key, _ := auth.GetKey(false); key != "" {
		a.setState(StateBrowsing)
		return
	}
	a.setState(StateNoKey)
}

func (a *galleryApp) setupUI() {
	a.searchEntry = widget.NewEntry()
	a.searchEntry.SetPlaceHolder("Search videos...")
	a.searchEntry.OnChanged = func(q string) {
		a.session.SetQuery(q)
		a.refreshGallery()
	}

	a.tabButtons = map[gallery.Tab]*widget.Button{}
	tabRow := container.NewHBox()
	for _, t := range []struct {
		tab   gallery.Tab
		label string
	}{
		{gallery.TabHome, "Home"},
		{gallery.TabMyVideos, "My Videos"},
		{gallery.TabFavorites, "Favorites"},
	} {
		tab := t.tab
		btn := widget.NewButton(t.label, func() {
			a.session.SelectTab(tab)
			a.refreshGallery()
		})
		a.tabButtons[tab] = btn
		tabRow.Add(btn)
	}

	settingsBtn := widget.NewButtonWithIcon("", theme.SettingsIcon(), func() {
		a.showSettingsWindow()
	})
	toolbar := container.NewBorder(nil, nil, tabRow, settingsBtn, a.searchEntry)

	a.grid = container.NewGridWrap(fyne.NewSize(280, 200))
	a.browseView = container.NewBorder(toolbar, nil, nil, nil, container.NewVScroll(a.grid))
	a.savingView = a.createSavingView()
	a.apiKeyView = a.createApiKeyView()

	a.content = container.NewStack(a.browseView, a.savingView, a.apiKeyView)
	a.window.SetContent(a.content)
	a.refreshGallery()
}

func (a *galleryApp) createSavingView() fyne.CanvasObject {
	spinner := widget.NewProgressBarInfinite()
	label := widget.NewLabelWithStyle("Generating video...", fyne.TextAlignCenter, fyne.TextStyle{Bold: true})
	hint := widget.NewLabelWithStyle("This can take a few minutes.", fyne.TextAlignCenter, fyne.TextStyle{})
	cancelBtn := widget.NewButton("Cancel", func() {
		a.cancelActive("user canceled")
	})
	return container.NewCenter(container.NewVBox(label, spinner, hint, cancelBtn))
}

func (a *galleryApp) createApiKeyView() fyne.CanvasObject {
	entry := widget.NewPasswordEntry()
	entry.SetPlaceHolder("Gemini API Key")

	info := widget.NewLabelWithStyle(
		"A Gemini API key is required to generate videos.",
		fyne.TextAlignCenter, fyne.TextStyle{})

	useBtn := widget.NewButton("Use for this session", func() {
		key := entry.Text
		if key == "" {
			dialog.ShowInformation("No Key", "Please paste an API key first.", a.window)
			return
		}
		a.sessionKey = key
		entry.SetText("")
		a.setState(StateBrowsing)
	})
	saveBtn := widget.NewButton("Save to Keychain", func() {
		key := entry.Text
		if key == "" {
			dialog.ShowInformation("No Key", "Please paste an API key first.", a.window)
			return
		}
		if err := auth.SaveKey(key); err != nil {
			logger.Error("Failed to save API key", "error", err)
			dialog.ShowError(fmt.Errorf("could not save the key to the keychain"), a.window)
			return
		}
		entry.SetText("")
		a.setState(StateBrowsing)
	})
	browseBtn := widget.NewButton("Browse without a key", func() {
		a.setState(StateBrowsing)
	})

	form := container.NewVBox(info, entry, container.NewHBox(useBtn, saveBtn, browseBtn))
	return container.NewCenter(form)
}

func (a *galleryApp) setState(s AppState) {
	a.safeDo("app.set_state", func() {
		a.state = s
		a.browseView.Hide()
		a.savingView.Hide()
		a.apiKeyView.Hide()

		switch s {
		case StateBrowsing:
			a.browseView.Show()
			a.refreshGallery()
		case StateSaving:
			a.savingView.Show()
		case StateNoKey:
			a.apiKeyView.Show()
		}

		a.content.Refresh()
	})
}

func (a *galleryApp) refreshGallery() {
	current := a.session.Tab()
	for tab, btn := range a.tabButtons {
		if tab == current {
			btn.Importance = widget.HighImportance
		} else {
			btn.Importance = widget.MediumImportance
		}
		btn.Refresh()
	}

	videos := a.session.Visible()
	objects := make([]fyne.CanvasObject, 0, len(videos))
	for _, v := range videos {
		objects = append(objects, a.createVideoCard(v))
	}
	a.grid.Objects = objects
	a.grid.Refresh()
}

func (a *galleryApp) createVideoCard(v gallery.Video) fyne.CanvasObject {
	playBtn := widget.NewButtonWithIcon("Play", theme.MediaPlayIcon(), func() {
		a.session.Play(v.ID)
		a.showPlayerForCurrent()
	})
	remixBtn := widget.NewButtonWithIcon("Remix", theme.ColorPaletteIcon(), func() {
		a.showEditDialog(v)
	})

	favLabel := "♡"
	if a.session.IsFavorite(v.ID) {
		favLabel = "♥"
	}
	favBtn := widget.NewButton(favLabel, func() {
		a.session.ToggleFavorite(v.ID)
		a.refreshGallery()
	})

	desc := widget.NewLabel(gallery.TruncateLabel(v.Description, 60))
	desc.Wrapping = fyne.TextWrapWord
	actions := container.NewHBox(playBtn, remixBtn, favBtn)
	return widget.NewCard(
		gallery.TruncateLabel(v.Title, 30),
		"",
		container.NewVBox(desc, actions),
	)
}

func (a *galleryApp) showPlayerForCurrent() {
	v, ok := a.session.Playing()
	if !ok {
		return
	}
	title := widget.NewLabelWithStyle(v.Title, fyne.TextAlignCenter, fyne.TextStyle{Bold: true})
	desc := widget.NewLabel(v.Description)
	desc.Wrapping = fyne.TextWrapWord
	source := widget.NewLabel(gallery.TruncateLabel(v.SourceURI(), 80))

	content := container.NewVBox(title, desc, widget.NewSeparator(), source)
	d := dialog.NewCustom("Now Playing", "Close", content, a.window)
	d.SetOnClosed(func() {
		a.session.ClosePlayer()
	})
	d.Resize(fyne.NewSize(520, 320))
	d.Show()
}

func (a *galleryApp) showEditDialog(v gallery.Video) {
	if err := a.session.StartEdit(v.ID); err != nil {
		dialog.ShowError(err, a.window)
		return
	}

	promptEntry := widget.NewMultiLineEntry()
	promptEntry.SetPlaceHolder("Describe how to remix this video...")
	promptEntry.SetMinRowsVisible(4)

	countOptions := make([]string, 0, veo.MaxVariants)
	for i := veo.MinVariants; i <= veo.MaxVariants; i++ {
		countOptions = append(countOptions, strconv.Itoa(i))
	}
	countSelect := widget.NewSelect(countOptions, nil)
	countSelect.SetSelected(strconv.Itoa(a.config.VariantCount))

	aspectOptions := make([]string, 0, len(veo.AspectRatios()))
	for _, r := range veo.AspectRatios() {
		aspectOptions = append(aspectOptions, string(r))
	}
	aspectSelect := widget.NewSelect(aspectOptions, nil)
	aspectSelect.SetSelected(a.config.AspectRatio)

	refineCheck := widget.NewCheck("Refine prompt with Gemini", nil)
	refineCheck.SetChecked(a.config.RefinePrompts)

	form := container.NewVBox(
		widget.NewLabel("Remixing: "+gallery.TruncateLabel(v.Title, 40)),
		promptEntry,
		container.NewHBox(
			widget.NewLabel("Videos:"), countSelect,
			widget.NewLabel("Aspect:"), aspectSelect,
		),
		refineCheck,
	)

	d := dialog.NewCustomConfirm("Remix Video", "Generate", "Cancel", form, func(ok bool) {
		if !ok {
			a.session.CancelEdit()
			return
		}
		prompt := promptEntry.Text
		if prompt == "" {
			dialog.ShowInformation("Empty Prompt", "Please describe the remix you want.", a.window)
			a.session.CancelEdit()
			return
		}

		count, err := strconv.Atoi(countSelect.Selected)
		if err != nil {
			count = 1
		}
		a.config.VariantCount = clampVariantCount(count)
		a.config.AspectRatio = normalizeAspect(aspectSelect.Selected)
		a.config.RefinePrompts = refineCheck.Checked
		a.saveConfig()

		cfg := veo.GenerateConfig{
			VariantCount: a.config.VariantCount,
			AspectRatio:  veo.AspectRatio(a.config.AspectRatio),
		}
		a.startGeneration(prompt, cfg)
	}, a.window)
	d.Resize(fyne.NewSize(560, 400))
	d.Show()
}

func (a *galleryApp) showSettingsWindow() {
	if a.currentSettingsWin != nil {
		a.currentSettingsWin.RequestFocus()
		return
	}
	win := fyne.CurrentApp().NewWindow("Settings")
	a.currentSettingsWin = win

	modelSelect := widget.NewSelect(metadata.VeoModelIDs(), nil)
	modelSelect.SetSelected(a.config.Model)

	refinerSelect := widget.NewSelect(metadata.RefinerModelIDs(), nil)
	refinerSelect.SetSelected(a.config.RefinerModel)

	pollEntry := widget.NewEntry()
	pollEntry.SetText(strconv.Itoa(a.config.PollSeconds))

	keyBtn := widget.NewButton("Change API Key...", func() {
		win.Close()
		a.setState(StateNoKey)
	})

	saveBtn := widget.NewButton("Save", func() {
		a.config.Model = normalizeVeoModel(modelSelect.Selected)
		a.config.RefinerModel = normalizeRefinerModel(refinerSelect.Selected)
		if n, err := strconv.Atoi(pollEntry.Text); err == nil {
			a.config.PollSeconds = clampPollSeconds(n)
		}
		a.saveConfig()
		win.Close()
	})

	form := container.NewVBox(
		widget.NewLabel("Veo model"),
		modelSelect,
		widget.NewLabel("Refiner model"),
		refinerSelect,
		widget.NewLabel("Poll interval (seconds)"),
		pollEntry,
		widget.NewSeparator(),
		keyBtn,
		saveBtn,
	)

	win.SetContent(container.NewPadded(form))
	win.Resize(fyne.NewSize(380, 360))
	win.SetOnClosed(func() {
		a.currentSettingsWin = nil
	})
	win.Show()
}

func main() {
	logger.Init(logger.LevelInfo, nil)
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Unrecovered GUI panic", "scope", "main", "panic", fmt.Sprint(r))
			os.Exit(1)
		}
	}()

	myApp := app.NewWithID("com.veogallery.app")
	myApp.Settings().SetTheme(largeTheme{Theme: theme.DefaultTheme()})

	w := myApp.NewWindow("Veo Gallery " + version.Version)
	w.SetMaster()
	w.Resize(fyne.NewSize(1000, 700))
	w.CenterOnScreen()

	ga := newGalleryApp(w)
	w.SetCloseIntercept(func() {
		ga.cancelActive("window closed")
		ga.sessionKey = ""
		w.SetCloseIntercept(nil)
		w.Close()
	})

	w.ShowAndRun()
}
