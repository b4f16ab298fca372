package main

import (
	"embed"

	"github.com/charmbracelet/log"
	"github.com/wailsapp/wails/v2"
	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/wailsapp/wails/v2/pkg/options/assetserver"
)

//go:embed all:frontend/dist
var frontend embed.FS

func main() {
	app := NewApp()

	err := wails.Run(&options.App{
		Title:  "Clutch",
		Width:  1280,
		Height: 800,
		AssetServer: &assetserver.Options{
			Assets: frontend,
		},
		OnStartup: app.startup,
		Bind: []interface{}{
			app,
		},
	})
	if err != nil {
		log.Fatal("wails run failed", "err", err)
	}
}
