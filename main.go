package main

import (
	"BowlingButtons/config"
	"BowlingButtons/i18n"
	"BowlingButtons/ui"
	"embed"
	"log"

	"fyne.io/fyne/v2/app"
)

//go:embed assets/*
var content embed.FS

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfg.UI.Lang != "" {
		i18n.SetLang(cfg.UI.Lang)
	}

	a, err := NewAppManager(content, cfg)
	if err != nil {
		log.Fatalf("Failed to build panel: %v", err)
	}

	fyneApp := app.New()
	fyneApp.Settings().SetTheme(ui.NewCustomTheme(a.Panel().Config().BackgroundColor()))

	w := ui.CreateMainWindow(a, fyneApp)
	w.SetOnClosed(a.Shutdown)

	w.ShowAndRun()
}
