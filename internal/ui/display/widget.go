package display

import (
	"lockedflow/internal/core/timer"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
)

// Widget renders a timer snapshot.
type Widget struct {
	timeText     *canvas.Text
	stateText    *canvas.Text
	progressText *canvas.Text
	remaining    *canvas.Text
	track        *canvas.Rectangle
	fill         *canvas.Rectangle
	bar          *barLayout
	barContainer *fyne.Container
	content      *fyne.Container
}

// NewWidget creates a Widget showing a stopped timer.
func NewWidget() *Widget {
	timeText := canvas.NewText(FormatDuration(0), theme.Color(theme.ColorNameForeground))
	timeText.Alignment = fyne.TextAlignCenter
	timeText.TextStyle = fyne.TextStyle{Bold: true, Monospace: true}
	timeText.TextSize = 42

	stateText := canvas.NewText(StateLabel(timer.StateStopped), StateColor(timer.StateStopped))
	stateText.Alignment = fyne.TextAlignCenter
	stateText.TextStyle = fyne.TextStyle{Bold: true}
	stateText.TextSize = 18

	progressText := canvas.NewText("", theme.Color(theme.ColorNameForeground))
	progressText.Alignment = fyne.TextAlignCenter
	progressText.TextSize = 14

	remaining := canvas.NewText("", theme.Color(theme.ColorNameDisabled))
	remaining.Alignment = fyne.TextAlignCenter
	remaining.TextSize = 12

	track := canvas.NewRectangle(colorTrack)
	track.CornerRadius = 4
	fill := canvas.NewRectangle(ColorRunning)
	fill.CornerRadius = 4
	bar := &barLayout{}
	barContainer := container.New(bar, track, fill)

	view := &Widget{
		timeText:     timeText,
		stateText:    stateText,
		progressText: progressText,
		remaining:    remaining,
		track:        track,
		fill:         fill,
		bar:          bar,
		barContainer: barContainer,
	}
	view.content = container.NewVBox(timeText, stateText, progressText, barContainer, remaining)
	view.Apply(timer.Snapshot{State: timer.StateStopped})
	return view
}

// Content returns the canvas object to place in a window.
func (view *Widget) Content() fyne.CanvasObject {
	return view.content
}

// Apply updates every canvas object from snapshot. It must run on the fyne
// goroutine.
func (view *Widget) Apply(snapshot timer.Snapshot) {
	view.timeText.Text = FormatDuration(snapshot.Elapsed)
	view.stateText.Text = StateLabel(snapshot.State)
	view.stateText.Color = StateColor(snapshot.State)
	view.progressText.Text = ProgressLabel(snapshot)

	if snapshot.HasTarget {
		view.remaining.Text = "Remaining " + FormatDuration(snapshot.Remaining)
		view.bar.fraction = float32(snapshot.Progress / 100)
		view.fill.FillColor = ProgressColor(snapshot.Progress)
		view.barContainer.Show()
	} else {
		view.remaining.Text = ""
		view.bar.fraction = 0
		view.barContainer.Hide()
	}

	view.timeText.Refresh()
	view.stateText.Refresh()
	view.progressText.Refresh()
	view.remaining.Refresh()
	view.fill.Refresh()
	view.barContainer.Refresh()
}

type barLayout struct {
	fraction float32
}

const barHeight = float32(10)

func (layout *barLayout) Layout(objects []fyne.CanvasObject, size fyne.Size) {
	if len(objects) < 2 {
		return
	}
	track := objects[0]
	fill := objects[1]

	fraction := layout.fraction
	if fraction < 0 {
		fraction = 0
	}
	if fraction > 1 {
		fraction = 1
	}

	y := (size.Height - barHeight) / 2
	if y < 0 {
		y = 0
	}
	track.Move(fyne.NewPos(0, y))
	track.Resize(fyne.NewSize(size.Width, barHeight))
	fill.Move(fyne.NewPos(0, y))
	fill.Resize(fyne.NewSize(size.Width*fraction, barHeight))
}

func (layout *barLayout) MinSize(objects []fyne.CanvasObject) fyne.Size {
	return fyne.NewSize(200, barHeight+8)
}
