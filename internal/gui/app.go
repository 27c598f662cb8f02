// Package gui runs the exercises in a raylib window.
package gui

import (
	"fmt"
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/san-kum/perhabs/internal/clock"
	"github.com/san-kum/perhabs/internal/exercise"
	"github.com/san-kum/perhabs/internal/input"
	"github.com/san-kum/perhabs/internal/render"
	"github.com/san-kum/perhabs/internal/report"
	"github.com/san-kum/perhabs/internal/stage"
)

var (
	ColBg      = rl.NewColor(10, 10, 10, 255)
	ColSelect  = rl.NewColor(255, 255, 255, 255)
	ColText    = rl.NewColor(140, 140, 140, 255)
	ColTextDim = rl.NewColor(60, 60, 60, 255)
)

// hudHeight is the strip above the exercise area for the status line.
const hudHeight = 40

var keyMap = map[int32]input.Key{
	rl.KeyUp:     input.KeyUp,
	rl.KeyDown:   input.KeyDown,
	rl.KeyLeft:   input.KeyLeft,
	rl.KeyRight:  input.KeyRight,
	rl.KeySpace:  input.KeySpace,
	rl.KeyEnter:  input.KeyEnter,
	rl.KeyEscape: input.KeyEscape,
}

// Options configure the window host. Frame must be the clock the exercises
// were built with.
type Options struct {
	Exercises []exercise.Exercise
	Frame     *clock.Frame
	// Start opens this exercise directly instead of the menu.
	Start   exercise.Kind
	Reports *report.Writer
	Seed    int64
	Preset  string
	Logger  *slog.Logger
}

type App struct {
	Exercises []exercise.Exercise
	Selected  int
	InMenu    bool
	Current   exercise.Exercise

	frame    *clock.Frame
	scene    *render.Scene
	reports  *report.Writer
	seed     int64
	preset   string
	log      *slog.Logger
	saved    bool
	reportID string
}

func initWindow() {
	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagMsaa4xHint)
	rl.InitWindow(1280, 720, "perhabs")
	rl.SetTargetFPS(60)
	rl.SetExitKey(0)
}

func NewApp(o Options) *App {
	if o.Frame == nil {
		o.Frame = clock.NewFrame(clock.System)
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.DiscardHandler)
	}
	a := &App{
		Exercises: o.Exercises,
		InMenu:    true,
		frame:     o.Frame,
		scene:     render.NewScene(render.White),
		reports:   o.Reports,
		seed:      o.Seed,
		preset:    o.Preset,
		log:       o.Logger,
	}
	if o.Start != "" {
		for i, ex := range a.Exercises {
			if ex.Kind() == o.Start {
				a.Selected = i
				a.open()
			}
		}
	}
	return a
}

// Run opens the window and blocks until it is closed.
func Run(o Options) {
	initWindow()
	defer rl.CloseWindow()
	NewApp(o).RunLoop()
}

func (a *App) RunLoop() {
	for !rl.WindowShouldClose() {
		if quit := a.Update(); quit {
			return
		}
		a.Draw()
	}
}

func (a *App) open() {
	a.Current = a.Exercises[a.Selected]
	a.InMenu, a.saved, a.reportID = false, false, ""
	a.Current.Start()
	a.log.Info("exercise selected", "exercise", a.Current.Kind())
}

func (a *App) closeExercise() {
	a.Current.Reset()
	a.Current, a.InMenu, a.reportID = nil, true, ""
}

// Update advances one frame and reports whether the user asked to quit.
func (a *App) Update() bool {
	a.frame.Tick()

	if a.InMenu {
		return a.updateMenu()
	}

	if rl.IsKeyPressed(rl.KeyEscape) {
		a.closeExercise()
		return false
	}

	var in input.Frame
	for rk, k := range keyMap {
		if rl.IsKeyPressed(rk) {
			in.Press(k)
		}
	}
	view := fit(rl.GetScreenWidth(), rl.GetScreenHeight()-hudHeight, hudHeight)
	mouse := rl.GetMousePosition()
	if p, ok := view.toScene(float64(mouse.X), float64(mouse.Y)); ok {
		in.Hover(p)
		if rl.IsMouseButtonPressed(rl.MouseButtonLeft) {
			in.Click(p)
		}
	}
	a.Current.Tick(in)

	sum := a.Current.Summary()
	switch {
	case sum.Stage != stage.Finished:
		a.saved = false
	case !a.saved:
		a.saved = true
		a.save(sum)
	}
	return false
}

func (a *App) updateMenu() bool {
	if rl.IsKeyPressed(rl.KeyQ) || rl.IsKeyPressed(rl.KeyEscape) {
		return true
	}
	if len(a.Exercises) == 0 {
		return false
	}
	if rl.IsKeyPressed(rl.KeyDown) || rl.IsKeyPressed(rl.KeyJ) {
		a.Selected = (a.Selected + 1) % len(a.Exercises)
	}
	if rl.IsKeyPressed(rl.KeyUp) || rl.IsKeyPressed(rl.KeyK) {
		a.Selected = (a.Selected - 1 + len(a.Exercises)) % len(a.Exercises)
	}
	if rl.IsKeyPressed(rl.KeyEnter) || rl.IsKeyPressed(rl.KeySpace) {
		a.open()
	}
	return false
}

func (a *App) save(sum exercise.Summary) {
	if a.reports == nil {
		return
	}
	id, err := a.reports.Save(sum, a.seed, a.preset)
	if err != nil {
		a.log.Error("saving report failed", "exercise", sum.Kind, "err", err)
		return
	}
	a.reportID = id
	a.log.Info("report saved", "id", id)
}

func (a *App) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(ColBg)

	if a.InMenu {
		a.drawMenu()
	} else {
		a.scene.Reset(render.White)
		a.Current.Draw(a.scene)
		view := fit(rl.GetScreenWidth(), rl.GetScreenHeight()-hudHeight, hudHeight)
		paint(a.scene, view)
		a.drawHUD()
	}

	rl.EndDrawing()
}

func (a *App) drawHUD() {
	rl.DrawText("perhabs", 20, 12, 20, ColSelect)
	rl.DrawText(":: "+a.scene.Status, 120, 15, 16, ColText)
	if a.reportID != "" {
		rl.DrawText("report "+a.reportID, 20, int32(rl.GetScreenHeight())-22, 14, ColText)
	}
	hint := "[ARROWS] ANSWER  [CLICK] PICK  [SPACE] START  [ESC] MENU"
	rl.DrawText(hint, int32(rl.GetScreenWidth())-rl.MeasureText(hint, 14)-20, 14, 14, ColTextDim)
}

func (a *App) drawMenu() {
	rl.DrawText("perhabs", 50, 50, 40, ColSelect)
	rl.DrawText("Select Exercise", 50, 100, 16, ColTextDim)

	y := int32(160)
	for i, ex := range a.Exercises {
		if i == a.Selected {
			rl.DrawText(fmt.Sprintf("> %s", ex.Name()), 50, y, 24, ColSelect)
			rl.DrawText(ex.Kind().Description(), 70, y+30, 16, ColText)
			y += 28
		} else {
			rl.DrawText(fmt.Sprintf("  %s", ex.Name()), 50, y, 24, ColText)
		}
		y += 36
	}

	rl.DrawText("ARROWS: NAVIGATE  ENTER: START  Q: QUIT", 50, int32(rl.GetScreenHeight())-40, 14, ColTextDim)
}
