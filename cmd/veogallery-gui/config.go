package main

import (
	"fyne.io/fyne/v2"

	"github.com/maraval/veogallery/internal/logger"
	"github.com/maraval/veogallery/internal/metadata"
	"github.com/maraval/veogallery/internal/veo"
)

type AppConfig struct {
	Model         string
	RefinerModel  string
	VariantCount  int
	AspectRatio   string
	RefinePrompts bool
	PollSeconds   int
}

const (
	defaultGUIModel    = metadata.DefaultVeoModel
	defaultPollSeconds = 10
	maxPollSecondsGUI  = 120
)

func normalizeVeoModel(id string) string {
	if metadata.IsVeoModel(id) {
		return id
	}
	return defaultGUIModel
}

func normalizeRefinerModel(id string) string {
	for _, m := range metadata.RefinerModels {
		if m.ID == id {
			return id
		}
	}
	return metadata.DefaultRefinerModel
}

func normalizeAspect(s string) string {
	if veo.AspectRatio(s).Valid() {
		return s
	}
	return string(veo.AspectWide)
}

func clampVariantCount(n int) int {
	if n < veo.MinVariants {
		return veo.MinVariants
	}
	if n > veo.MaxVariants {
		return veo.MaxVariants
	}
	return n
}

func clampPollSeconds(n int) int {
	if n < 1 {
		return defaultPollSeconds
	}
	if n > maxPollSecondsGUI {
		return maxPollSecondsGUI
	}
	return n
}

func (a *galleryApp) loadConfig() {
	prefs := fyne.CurrentApp().Preferences()

	a.config.Model = normalizeVeoModel(prefs.StringWithFallback("Model", defaultGUIModel))
	a.config.RefinerModel = normalizeRefinerModel(prefs.StringWithFallback("RefinerModel", metadata.DefaultRefinerModel))
	a.config.AspectRatio = normalizeAspect(prefs.StringWithFallback("AspectRatio", string(veo.AspectWide)))
	a.config.RefinePrompts = prefs.BoolWithFallback("RefinePrompts", false)

	a.config.VariantCount = prefs.IntWithFallback("VariantCount", 1)
	if clamped := clampVariantCount(a.config.VariantCount); clamped != a.config.VariantCount {
		logger.Warn("Variant count clamped", "requested", a.config.VariantCount, "effective", clamped)
		a.config.VariantCount = clamped
		prefs.SetInt("VariantCount", clamped)
	}
	a.config.PollSeconds = prefs.IntWithFallback("PollSeconds", defaultPollSeconds)
	if clamped := clampPollSeconds(a.config.PollSeconds); clamped != a.config.PollSeconds {
		logger.Warn("Poll interval clamped", "requested", a.config.PollSeconds, "effective", clamped)
		a.config.PollSeconds = clamped
		prefs.SetInt("PollSeconds", clamped)
	}
}

func (a *galleryApp) saveConfig() {
	prefs := fyne.CurrentApp().Preferences()
	prefs.SetString("Model", a.config.Model)
	prefs.SetString("RefinerModel", a.config.RefinerModel)
	prefs.SetString("AspectRatio", a.config.AspectRatio)
	prefs.SetBool("RefinePrompts", a.config.RefinePrompts)
	prefs.SetInt("VariantCount", a.config.VariantCount)
	prefs.SetInt("PollSeconds", a.config.PollSeconds)
}
