// Package preview draws a map & the creature animation in a terminal.
package preview

import (
	"context"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/voidshard/northlands"
)

// glyph is how a tile type looks in the terminal
type glyph struct {
	ch    rune
	style tcell.Style
}

var (
	grassGlyphs = map[northlands.TileType]glyph{
		northlands.Grass1: {',', tcell.StyleDefault.Foreground(tcell.ColorGreen)},
		northlands.Grass2: {'.', tcell.StyleDefault.Foreground(tcell.ColorDarkGreen)},
		northlands.Grass3: {'"', tcell.StyleDefault.Foreground(tcell.ColorLimeGreen)},
		northlands.Grass4: {'\'', tcell.StyleDefault.Foreground(tcell.ColorOliveDrab)},
	}
	customGlyph = glyph{'?', tcell.StyleDefault.Foreground(tcell.ColorGray)}

	// the creature's two frames
	creatureGlyphs = [2]glyph{
		{'@', tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)},
		{'&', tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)},
	}
)

// GlyphFor returns the rune used to draw a tile type
func GlyphFor(t northlands.TileType) rune {
	g, ok := grassGlyphs[t]
	if !ok {
		return customGlyph.ch
	}
	return g.ch
}

// Preview draws a map with the creature stood in the middle of it.
type Preview struct {
	screen tcell.Screen
	gmap   *northlands.GameMap
	anim   *northlands.TwoFrame

	// how often we redraw
	Tick time.Duration
}

// New returns a preview drawing to an initialised screen.
func New(screen tcell.Screen, gmap *northlands.GameMap, anim *northlands.TwoFrame) *Preview {
	return &Preview{screen: screen, gmap: gmap, anim: anim, Tick: 50 * time.Millisecond}
}

// Creature returns the glyph the creature is currently shown as
func (p *Preview) Creature() rune {
	return p.creatureGlyph().ch
}

func (p *Preview) creatureGlyph() glyph {
	if p.anim.Index == p.anim.Indices.Last && p.anim.Indices.Last != p.anim.Indices.First {
		return creatureGlyphs[1]
	}
	return creatureGlyphs[0]
}

// origin is the screen cell of map (0, 0): bottom left of the map, centred
// on screen
func (p *Preview) origin() (int, int) {
	sw, sh := p.screen.Size()
	return (sw - p.gmap.Width) / 2, (sh+p.gmap.Height)/2 - 1
}

// Draw the map & creature to the screen
func (p *Preview) Draw() {
	p.screen.Clear()
	ox, oy := p.origin()

	p.gmap.Each(func(x, y int, t northlands.Tile) {
		g, ok := grassGlyphs[t.Type]
		if !ok {
			g = customGlyph
		}
		p.screen.SetContent(ox+x, oy-y, g.ch, nil, g.style)
	})

	cg := p.creatureGlyph()
	p.screen.SetContent(ox+p.gmap.Width/2, oy-p.gmap.Height/2, cg.ch, nil, cg.style)
	p.screen.Show()
}

// Update advances the creature animation by dt
func (p *Preview) Update(dt time.Duration) {
	p.anim.Update(dt)
}

// Run draws & animates until ctx is done or the user presses Esc or q.
func (p *Preview) Run(ctx context.Context) error {
	events := make(chan tcell.Event)
	quit := make(chan struct{})
	defer close(quit)

	go func() {
		for {
			ev := p.screen.PollEvent()
			if ev == nil {
				return // screen finalised
			}
			select {
			case events <- ev:
			case <-quit:
				return
			}
		}
	}()

	ticker := time.NewTicker(p.Tick)
	defer ticker.Stop()

	last := time.Now()
	p.Draw()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC || ev.Rune() == 'q' {
					return nil
				}
			case *tcell.EventResize:
				p.screen.Sync()
				p.Draw()
			}
		case now := <-ticker.C:
			p.Update(now.Sub(last))
			last = now
			p.Draw()
		}
	}
}
