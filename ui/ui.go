package ui

import (
	"BowlingButtons/i18n"
	"BowlingButtons/panel"
	"fmt"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

type App interface {
	Panel() *panel.Panel
	Viewer() panel.Player
	Players() []panel.Player
	SetViewer(panel.Player)
	AddPlayer() panel.Player
	NextViewer()
	HandleKeyRune(rune)
	SetButtonWidget(panel.Action, *ButtonWidget)
	OnRelayed(func(panel.Event))
}

type ButtonWidget struct {
	cfg    panel.ButtonConfig
	app    App
	action panel.Action

	fillRect          *canvas.Rectangle
	borderRect        *canvas.Rectangle
	labelText         *canvas.Text
	captionText       *canvas.Text
	tappableContainer *TappableContainer
}

func NewButtonWidget(a App, cfg panel.ButtonConfig, borderColor color.Color, radius float32) *ButtonWidget {
	w := &ButtonWidget{cfg: cfg, app: a, action: cfg.Action}

	w.fillRect = canvas.NewRectangle(cfg.Base())
	w.fillRect.SetMinSize(fyne.NewSize(panel.ButtonSize, panel.ButtonSize))

	w.borderRect = canvas.NewRectangle(borderColor)
	if cfg.Rounded {
		w.fillRect.CornerRadius = radius
		w.borderRect.CornerRadius = radius
	}

	w.labelText = canvas.NewText(i18n.T(cfg.Label), cfg.Text())
	w.labelText.Alignment = fyne.TextAlignCenter
	w.labelText.TextSize = cfg.LabelSize
	w.labelText.TextStyle.Bold = cfg.Bold

	texts := container.New(layout.NewVBoxLayout(),
		layout.NewSpacer(),
		container.New(layout.NewCenterLayout(), w.labelText),
	)
	if cfg.Caption != "" {
		w.captionText = canvas.NewText(i18n.T(cfg.Caption), cfg.Text())
		w.captionText.Alignment = fyne.TextAlignCenter
		w.captionText.TextSize = cfg.CaptionSize
		w.captionText.TextStyle.Bold = cfg.Bold
		texts.Add(container.New(layout.NewCenterLayout(), w.captionText))
	}
	texts.Add(layout.NewSpacer())

	pad := float32(panel.ButtonPadding)
	face := container.NewStack(w.fillRect, texts)
	boxed := container.NewStack(w.borderRect, container.New(layout.NewCustomPaddedLayout(pad, pad, pad, pad), face))

	w.tappableContainer = NewTappableContainer(boxed, func() {
		a.Panel().Press(a.Viewer(), w.action)
	})

	w.UpdateDisplay()
	return w
}

func (bw *ButtonWidget) GetCanvasObject() fyne.CanvasObject {
	return bw.tappableContainer
}

// Action returns the action this widget presses.
func (bw *ButtonWidget) Action() panel.Action {
	return bw.action
}

// FillColor returns the color currently painted on the button face.
func (bw *ButtonWidget) FillColor() color.Color {
	return bw.fillRect.FillColor
}

// UpdateDisplay repaints the face with the color the current viewer sees.
// The color is read on the UI thread when the repaint runs.
func (bw *ButtonWidget) UpdateDisplay() {
	fyne.Do(func() {
		bw.fillRect.FillColor = bw.app.Panel().ColorFor(bw.app.Viewer(), bw.action)
		bw.fillRect.Refresh()
	})
}

func spacer(w, h float32) fyne.CanvasObject {
	r := canvas.NewRectangle(color.Transparent)
	r.SetMinSize(fyne.NewSize(w, h))
	return r
}

// BuildPanel lays out the five buttons: Start alone on the left, Reset over
// Ball Glitched in the middle, Join over Skip Turn on the right.
func BuildPanel(a App) (map[panel.Action]*ButtonWidget, fyne.CanvasObject) {
	cfg := a.Panel().Config()
	widgets := make(map[panel.Action]*ButtonWidget, len(cfg.Buttons))
	for _, b := range cfg.Buttons {
		bw := NewButtonWidget(a, b, cfg.BorderColor(), cfg.BorderRadius)
		widgets[b.Action] = bw
		a.SetButtonWidget(b.Action, bw)
	}

	obj := func(act panel.Action) fyne.CanvasObject {
		return widgets[act].GetCanvasObject()
	}
	gap := float32(panel.ButtonSpacing)

	startColumn := container.NewVBox(
		layout.NewSpacer(),
		container.New(layout.NewCustomPaddedLayout(gap, gap, gap, gap), obj(panel.ActionStart)),
		layout.NewSpacer(),
	)
	middleColumn := container.NewVBox(
		spacer(0, gap), obj(panel.ActionReset),
		spacer(0, gap), obj(panel.ActionBallGlitch),
		spacer(0, gap),
	)
	rightColumn := container.NewVBox(
		spacer(0, gap), obj(panel.ActionJoin),
		spacer(0, gap), obj(panel.ActionSkipTurn),
		spacer(0, gap),
	)

	row := container.NewHBox(
		startColumn,
		spacer(panel.StartSeparation, 0),
		middleColumn,
		spacer(gap, 0),
		rightColumn,
		spacer(gap, 0),
	)

	background := canvas.NewRectangle(cfg.BackgroundColor())
	content := container.NewStack(background, container.New(layout.NewCenterLayout(), row))

	a.Panel().OnChange(func(act panel.Action, p panel.Player) {
		if p != a.Viewer() {
			return
		}
		if bw, ok := widgets[act]; ok {
			bw.UpdateDisplay()
		}
	})

	return widgets, content
}

func refreshAll(widgets map[panel.Action]*ButtonWidget) {
	for _, bw := range widgets {
		bw.UpdateDisplay()
	}
}

func playerNames(players []panel.Player) []string {
	names := make([]string, len(players))
	for i, p := range players {
		names[i] = fmt.Sprintf("%d. %s", i+1, p.Name)
	}
	return names
}

func indexOf(players []panel.Player, p panel.Player) int {
	for i, q := range players {
		if q == p {
			return i
		}
	}
	return -1
}

// BuildViewerBar returns the viewer selector, the add-player button and the
// bar holding both. Changing the viewer repaints every button with that
// player's colors.
func BuildViewerBar(a App, widgets map[panel.Action]*ButtonWidget) (*widget.Select, *widget.Button, fyne.CanvasObject) {
	viewerSelect := widget.NewSelect(playerNames(a.Players()), nil)
	viewerSelect.OnChanged = func(string) {
		players := a.Players()
		i := viewerSelect.SelectedIndex()
		if i < 0 || i >= len(players) {
			return
		}
		if players[i] != a.Viewer() {
			a.SetViewer(players[i])
		}
		refreshAll(widgets)
	}
	viewerSelect.SetSelectedIndex(indexOf(a.Players(), a.Viewer()))

	addButton := widget.NewButtonWithIcon(i18n.T("Add player"), theme.ContentAddIcon(), func() {
		p := a.AddPlayer()
		viewerSelect.Options = playerNames(a.Players())
		viewerSelect.SetSelectedIndex(indexOf(a.Players(), p))
	})

	bar := container.NewHBox(
		widget.NewLabel(i18n.T("Viewer")),
		viewerSelect,
		layout.NewSpacer(),
		addButton,
	)
	return viewerSelect, addButton, bar
}

// BuildStatus shows the last event the manager received.
func BuildStatus(a App) *widget.Label {
	status := widget.NewLabel(i18n.T("Waiting for a press"))
	status.Alignment = fyne.TextAlignCenter
	a.OnRelayed(func(e panel.Event) {
		text := fmt.Sprintf("%s: %s", e.Player, e.Name)
		fyne.Do(func() {
			status.SetText(text)
		})
	})
	return status
}

func CreateMainWindow(a App, fyneApp fyne.App) fyne.Window {
	title := fyneApp.Metadata().Name
	if title == "" {
		title = "Bowling Buttons"
	}
	w := fyneApp.NewWindow(title)

	widgets, panelContent := BuildPanel(a)
	viewerSelect, _, viewerBar := BuildViewerBar(a, widgets)
	status := BuildStatus(a)

	w.Canvas().SetOnTypedRune(a.HandleKeyRune)
	w.Canvas().SetOnTypedKey(func(ev *fyne.KeyEvent) {
		if ev.Name == fyne.KeyTab {
			a.NextViewer()
			viewerSelect.SetSelectedIndex(indexOf(a.Players(), a.Viewer()))
		}
	})

	content := container.NewBorder(viewerBar, status, nil, nil, panelContent)

	w.SetContent(content)
	w.Resize(fyne.NewSize(panel.PanelWidth, panel.PanelHeight+80))
	return w
}

// TappableContainer makes any canvas object respond to a primary tap.
type TappableContainer struct {
	widget.BaseWidget
	Content         fyne.CanvasObject
	OnTappedPrimary func()
}

func NewTappableContainer(c fyne.CanvasObject, onP func()) *TappableContainer {
	t := &TappableContainer{
		Content:         c,
		OnTappedPrimary: onP,
	}
	t.ExtendBaseWidget(t)
	return t
}

func (t *TappableContainer) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(t.Content)
}

func (t *TappableContainer) Tapped(_ *fyne.PointEvent) {
	if t.OnTappedPrimary != nil {
		t.OnTappedPrimary()
	}
}
