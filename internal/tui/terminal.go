// internal/tui/terminal.go
//
// Terminal frontend for the memory-grid engine.
// Responsibilities:
//   - Implement game.Display on a tcell screen: grid, highlights, status
//     line and scoreboard, redrawn after every update.
//   - Act as the input source: mouse clicks and a keyboard cursor are mapped
//     to cell indices and handed to the engine; s/r start or restart.
//
// Layout (top-left anchored):
//
//	row 0   scoreboard
//	row 1   status line
//	row 2   key help
//	row 4+  grid, each cell cellW×cellH with a one-column/one-row gutter

package tui

import (
	"context"
	"fmt"
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog"
	"golang.org/x/text/message"

	"github.com/robalobadob/memorygrid/internal/game"
)

const (
	originX = 2
	originY = 4
	cellW   = 7
	cellH   = 3

	helpText  = "[s] start  [r] restart  [arrows+space] select  [q] quit"
	startText = "Press s to start"
)

var (
	styleText     = tcell.StyleDefault
	styleDisabled = tcell.StyleDefault.Background(tcell.ColorDimGray)
	styleEnabled  = tcell.StyleDefault.Background(tcell.ColorNavy)
	styleLit      = tcell.StyleDefault.Background(tcell.ColorYellow)

	statusStyles = map[game.StatusKind]tcell.Style{
		game.StatusNeutral:  tcell.StyleDefault,
		game.StatusWatching: tcell.StyleDefault.Foreground(tcell.ColorAqua),
		game.StatusSuccess:  tcell.StyleDefault.Foreground(tcell.ColorGreen),
		game.StatusError:    tcell.StyleDefault.Foreground(tcell.ColorRed),
	}
)

// Controller is the part of the engine the input loop drives.
type Controller interface {
	Start() error
	SubmitStep(ctx context.Context, cell int) (game.Outcome, error)
}

// Terminal draws the game on a tcell screen. The screen must be initialized
// by the caller.
type Terminal struct {
	screen  tcell.Screen
	printer *message.Printer
	log     zerolog.Logger

	mu      sync.Mutex
	size    int
	lit     []bool
	enabled bool
	cursor  int
	status  string
	kind    game.StatusKind
	level   int
	score   int
	best    int
	buttons tcell.ButtonMask
}

// New constructs a Terminal on an initialized screen.
func New(screen tcell.Screen, p *message.Printer, log zerolog.Logger) *Terminal {
	t := &Terminal{
		screen:  screen,
		printer: p,
		log:     log,
		size:    game.MinGridSize,
		lit:     make([]bool, game.MinGridSize*game.MinGridSize),
		level:   1,
		status:  p.Sprintf(startText),
		kind:    game.StatusNeutral,
	}
	screen.EnableMouse(tcell.MouseButtonEvents)
	screen.HideCursor()
	return t
}

// ---------------------------- game.Display --------------------------------

func (t *Terminal) RenderGrid(size int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.size = size
	t.lit = make([]bool, size*size)
	if t.cursor >= size*size {
		t.cursor = 0
	}
	t.drawLocked()
}

func (t *Terminal) SetCellHighlighted(cell int, on bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if cell < 0 || cell >= len(t.lit) {
		return
	}
	t.lit[cell] = on
	t.drawLocked()
}

func (t *Terminal) SetInputEnabled(enabled bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.enabled = enabled
	t.drawLocked()
}

func (t *Terminal) ShowStatus(text string, kind game.StatusKind) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.status, t.kind = text, kind
	t.drawLocked()
}

func (t *Terminal) ShowScoreboard(level, score, best int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.level, t.score, t.best = level, score, best
	t.drawLocked()
}

// ------------------------------- input ------------------------------------

// Run polls terminal events until the player quits, ctx is cancelled or the
// screen is finalized.
func (t *Terminal) Run(ctx context.Context, ctrl Controller) error {
	for {
		if ctx.Err() != nil {
			return nil
		}
		ev := t.screen.PollEvent()
		if ev == nil {
			return nil
		}
		if quit := t.handle(ctx, ctrl, ev); quit {
			return nil
		}
	}
}

// Close finalizes the screen, which also unblocks Run.
func (t *Terminal) Close() { t.screen.Fini() }

// handle processes one event and reports whether the player asked to quit.
func (t *Terminal) handle(ctx context.Context, ctrl Controller, ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		t.mu.Lock()
		t.screen.Sync()
		t.drawLocked()
		t.mu.Unlock()

	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return true
		case tcell.KeyUp:
			t.moveCursor(0, -1)
		case tcell.KeyDown:
			t.moveCursor(0, 1)
		case tcell.KeyLeft:
			t.moveCursor(-1, 0)
		case tcell.KeyRight:
			t.moveCursor(1, 0)
		case tcell.KeyEnter:
			t.press(ctx, ctrl, t.cursorCell())
		case tcell.KeyRune:
			switch ev.Rune() {
			case 'q', 'Q':
				return true
			case 's', 'S', 'r', 'R':
				if err := ctrl.Start(); err != nil {
					t.log.Error().Err(err).Msg("start game")
				}
			case ' ':
				t.press(ctx, ctrl, t.cursorCell())
			}
		}

	case *tcell.EventMouse:
		t.mu.Lock()
		pressed := ev.Buttons()&tcell.Button1 != 0 && t.buttons&tcell.Button1 == 0
		t.buttons = ev.Buttons()
		t.mu.Unlock()
		if !pressed {
			return false
		}
		x, y := ev.Position()
		if cell, ok := t.cellAt(x, y); ok {
			t.press(ctx, ctrl, cell)
		}
	}
	return false
}

// press forwards a cell to the engine while input is enabled. The terminal
// lock is released first since the engine calls back into the Display.
func (t *Terminal) press(ctx context.Context, ctrl Controller, cell int) {
	t.mu.Lock()
	enabled := t.enabled
	t.mu.Unlock()
	if !enabled {
		return
	}
	out, err := ctrl.SubmitStep(ctx, cell)
	if err != nil {
		t.log.Error().Err(err).Int("cell", cell).Msg("submit step")
		return
	}
	t.log.Debug().Int("cell", cell).Str("outcome", string(out)).Msg("step")
}

func (t *Terminal) moveCursor(dx, dy int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	col := (t.cursor%t.size + dx + t.size) % t.size
	row := (t.cursor/t.size + dy + t.size) % t.size
	t.cursor = row*t.size + col
	t.drawLocked()
}

func (t *Terminal) cursorCell() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.cursor
}

// cellAt maps screen coordinates to a cell index; gutters map to nothing.
func (t *Terminal) cellAt(x, y int) (int, bool) {
	t.mu.Lock()
	size := t.size
	t.mu.Unlock()

	dx, dy := x-originX, y-originY
	if dx < 0 || dy < 0 {
		return 0, false
	}
	col, row := dx/(cellW+1), dy/(cellH+1)
	if col >= size || row >= size || dx%(cellW+1) == cellW || dy%(cellH+1) == cellH {
		return 0, false
	}
	return row*size + col, true
}

// cellOrigin is the top-left screen position of a cell.
func cellOrigin(cell, size int) (int, int) {
	return originX + (cell%size)*(cellW+1), originY + (cell/size)*(cellH+1)
}

// ------------------------------- drawing ----------------------------------

func (t *Terminal) drawLocked() {
	t.screen.Clear()

	p := t.printer
	board := fmt.Sprintf("%s %d   %s %d   %s %d",
		p.Sprintf("Level"), t.level, p.Sprintf("Score"), t.score, p.Sprintf("Best"), t.best)
	t.text(originX, 0, board, styleText)
	t.text(originX, 1, t.status, statusStyles[t.kind])
	t.text(originX, 2, p.Sprintf(helpText), styleText.Dim(true))

	for cell := range t.lit {
		style := styleDisabled
		switch {
		case t.lit[cell]:
			style = styleLit
		case t.enabled:
			style = styleEnabled
		}
		x0, y0 := cellOrigin(cell, t.size)
		for y := y0; y < y0+cellH; y++ {
			for x := x0; x < x0+cellW; x++ {
				t.screen.SetContent(x, y, ' ', nil, style)
			}
		}
		if t.enabled && cell == t.cursor {
			t.screen.SetContent(x0+cellW/2, y0+cellH/2, '●', nil, style.Foreground(tcell.ColorWhite))
		}
	}
	t.screen.Show()
}

func (t *Terminal) text(x, y int, s string, style tcell.Style) {
	for _, r := range s {
		t.screen.SetContent(x, y, r, nil, style)
		x++
	}
}
