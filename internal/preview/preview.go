// Package preview plays a show in the terminal.
package preview

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/ivlev/choreo/internal/editor"
	"github.com/ivlev/choreo/internal/formation"
	"github.com/ivlev/choreo/internal/playback"
	"github.com/ivlev/choreo/internal/timeline"
)

// SeekStep is how far the arrow keys move the playhead (ms).
const SeekStep = 1000.0

// statusRows are reserved under the stage for the timeline bar and status.
const statusRows = 2

var (
	gridStyle     = tcell.StyleDefault.Foreground(tcell.ColorDarkSlateGray)
	barStyle      = tcell.StyleDefault.Foreground(tcell.ColorGray)
	holdStyle     = tcell.StyleDefault.Foreground(tcell.ColorTeal)
	playheadStyle = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	statusStyle   = tcell.StyleDefault.Foreground(tcell.ColorWhite)
)

// Player owns the editor for the duration of Run: every edit happens on
// the Run goroutine. Only the clock is touched by the tick scheduler.
type Player struct {
	screen tcell.Screen
	ed     *editor.Editor

	frames atomic.Value // []formation.Frame seen by the scheduler
	ticks  chan bool
	sched  *playback.Scheduler
}

func New(screen tcell.Screen, ed *editor.Editor) *Player {
	p := &Player{
		screen: screen,
		ed:     ed,
		ticks:  make(chan bool, 1),
	}
	p.syncFrames()
	p.sched = playback.NewScheduler(ed.Clock(), 33*time.Millisecond, p.snapshot, p.onTick)
	return p
}

func (p *Player) snapshot() []formation.Frame {
	return p.frames.Load().([]formation.Frame)
}

func (p *Player) syncFrames() {
	p.frames.Store(p.ed.Frames())
}

func (p *Player) onTick(_ float64, playing bool) {
	select {
	case p.ticks <- playing:
	default:
	}
}

// Run draws and handles keys until quit or ctx ends. The caller owns the
// screen's Init and Fini.
func (p *Player) Run(ctx context.Context) error {
	events := make(chan tcell.Event, 16)
	go func() {
		for {
			ev := p.screen.PollEvent()
			if ev == nil {
				close(events)
				return
			}
			events <- ev
		}
	}()
	defer p.sched.Cancel()

	p.Draw()
	for {
		select {
		case <-ctx.Done():
			p.ed.Clock().Stop()
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if !p.HandleEvent(ev) {
				p.ed.Clock().Stop()
				return nil
			}
		case <-p.ticks:
		}
		p.Draw()
	}
}

// HandleEvent applies one terminal event and reports whether to keep
// running.
func (p *Player) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return p.handleKey(ev.Key(), ev.Rune())
	case *tcell.EventResize:
		p.screen.Sync()
	}
	return true
}

func (p *Player) handleKey(key tcell.Key, r rune) bool {
	ed := p.ed
	switch key {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyLeft:
		ed.Seek(ed.Time() - SeekStep)
	case tcell.KeyRight:
		ed.Seek(ed.Time() + SeekStep)
	case tcell.KeyHome:
		ed.Seek(0)
	case tcell.KeyRune:
		switch r {
		case 'q':
			return false
		case ' ':
			ed.PlayPause()
		case 'n':
			p.stepFrame(1)
		case 'p':
			p.stepFrame(-1)
		case 'c':
			ed.Capture()
		case '+', '=':
			ed.ZoomGrid(editor.GridZoomStep)
		case '-':
			ed.ZoomGrid(-editor.GridZoomStep)
		}
	}
	p.syncFrames()
	p.syncScheduler()
	return true
}

func (p *Player) syncScheduler() {
	switch {
	case p.ed.Clock().IsPlaying() && !p.sched.Running():
		p.sched.Start()
	case !p.ed.Clock().IsPlaying():
		p.sched.Cancel()
	}
}

// stepFrame selects the frame dir steps away from the current one.
func (p *Player) stepFrame(dir int) {
	frames := p.ed.Frames()
	if len(frames) == 0 {
		return
	}
	cur := -1
	for i, f := range frames {
		if f.ID == p.ed.CurrentFrameID() {
			cur = i
		}
	}
	next := cur + dir
	if cur < 0 {
		next = 0
	}
	if next < 0 || next >= len(frames) {
		return
	}
	p.ed.SelectFrame(frames[next].ID)
}

// stageCell maps a stage position into the drawing area.
func stageCell(pos formation.Position, w, h int) (int, int) {
	x := int(pos.X / 100 * float64(w-1))
	y := int(pos.Y / 100 * float64(h-1))
	return x, y
}

// Draw renders the stage at the playhead plus the timeline and status rows.
func (p *Player) Draw() {
	s := p.screen
	s.Clear()
	w, h := s.Size()
	stageH := h - statusRows
	if w < 2 || stageH < 2 {
		s.Show()
		return
	}

	p.drawGrid(w, stageH)

	positions := p.ed.CurrentPositions()
	for _, perf := range p.ed.Store().Performers() {
		pos, ok := positions[perf.ID]
		if !ok {
			continue
		}
		x, y := stageCell(pos, w, stageH)
		mark := '●'
		if perf.Label != "" {
			mark = []rune(perf.Label)[0]
		}
		style := tcell.StyleDefault.Foreground(tcell.GetColor(perf.Color)).Bold(true)
		s.SetContent(x, y, mark, nil, style)
	}

	p.drawTimeline(w, stageH)
	p.drawStatus(w, h-1)
	s.Show()
}

func (p *Player) drawGrid(w, h int) {
	step := 10.0 / p.ed.GridZoom()
	for gx := step; gx < 100; gx += step {
		for gy := step; gy < 100; gy += step {
			x, y := stageCell(formation.Position{X: gx, Y: gy}, w, h)
			p.screen.SetContent(x, y, '·', nil, gridStyle)
		}
	}
}

func (p *Player) drawTimeline(w, row int) {
	length := p.ed.DisplayLength()
	col := func(ms float64) int {
		c := int(ms / length * float64(w-1))
		if c > w-1 {
			c = w - 1
		}
		return c
	}
	for x := 0; x < w; x++ {
		p.screen.SetContent(x, row, '─', nil, barStyle)
	}
	for _, f := range p.ed.Frames() {
		for x := col(f.StartTime); x <= col(f.End()); x++ {
			p.screen.SetContent(x, row, '█', nil, holdStyle)
		}
	}
	p.screen.SetContent(col(p.ed.Time()), row, '│', nil, playheadStyle)
}

func (p *Player) drawStatus(w, row int) {
	state := "■"
	if p.ed.Clock().IsPlaying() {
		state = "▶"
	}
	name := ""
	if f, ok := p.ed.Store().Frame(p.ed.CurrentFrameID()); ok {
		name = f.Name
	}
	line := fmt.Sprintf("%s %s / %s  %s  [space] play  [←→] seek  [n/p] frame  [c] capture  [q] quit",
		state, timeline.FormatTime(p.ed.Time()), timeline.FormatTime(p.ed.DisplayLength()), name)
	x := 0
	for _, r := range line {
		if x >= w {
			break
		}
		p.screen.SetContent(x, row, r, nil, statusStyle)
		x++
	}
}
