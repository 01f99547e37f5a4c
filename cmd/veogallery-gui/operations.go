package main

import (
	"context"
	"errors"
	"time"

	"fyne.io/fyne/v2/dialog"

	"github.com/maraval/veogallery/internal/apperrors"
	"github.com/maraval/veogallery/internal/auth"
	"github.com/maraval/veogallery/internal/logger"
	"github.com/maraval/veogallery/internal/veo"
)

// startGeneration launches the remix workflow for the video currently in
// the edit form. It runs off the UI goroutine; every UI update goes back
// through safeDo.
func (a *galleryApp) startGeneration(prompt string, cfg veo.GenerateConfig) {
	apiKey := a.sessionKey
	if apiKey == "" {
		apiKey, _ = auth.GetKey(false)
	}
	if apiKey == "" {
		a.session.CancelEdit()
		a.setState(StateNoKey)
		return
	}

	a.service.configure(apiKey, a.config.Model)
	a.refiner.configure(a.config.RefinePrompts, apiKey, a.config.RefinerModel)
	a.session.SetPollInterval(time.Duration(a.config.PollSeconds) * time.Second)

	a.setState(StateSaving)

	ctx, cancel := context.WithCancel(context.Background())
	cancelID := a.setActiveCancel(cancel)
	a.safeGo("ops.generate", func() {
		defer a.clearActiveCancel(cancelID)
		err := a.session.Remix(ctx, prompt, cfg)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(ctx.Err(), context.Canceled) {
				logger.Info("Generation canceled")
				a.session.DismissError()
				a.setState(StateBrowsing)
				return
			}
			logger.Error("Generation failed", "error", err)
			if kind, ok := apperrors.KindOf(err); ok && kind == apperrors.KindAuth {
				a.setState(StateNoKey)
			} else {
				a.setState(StateBrowsing)
			}
			a.showGenerationError(err)
			return
		}
		a.setState(StateBrowsing)
		a.safeDo("ops.generate.refresh", func() {
			a.refreshGallery()
			a.showPlayerForCurrent()
		})
	})
}

func (a *galleryApp) showGenerationError(err error) {
	a.safeDo("ops.generate.error_dialog", func() {
		if a.window == nil {
			return
		}
		dialog.ShowError(errors.New(apperrors.PublicMessage(err)), a.window)
		a.session.DismissError()
	})
}
