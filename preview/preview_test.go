package preview

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voidshard/northlands"
)

func newScreen(t *testing.T, w, h int) tcell.SimulationScreen {
	s := tcell.NewSimulationScreen("UTF-8")
	require.Nil(t, s.Init())
	s.SetSize(w, h)
	t.Cleanup(s.Fini)
	return s
}

func newPreview(t *testing.T) (*Preview, tcell.SimulationScreen) {
	cfg := northlands.DefaultConfig()
	cfg.MapWidth = 10
	cfg.MapHeight = 6

	gmap := northlands.NewGameMap(cfg, rand.New(rand.NewSource(3)))
	anim := northlands.NewTwoFrame(northlands.AnimationIndices{First: 0, Last: 1}, 100*time.Millisecond)

	screen := newScreen(t, 20, 10)
	return New(screen, gmap, anim), screen
}

func TestDrawMap(t *testing.T) {
	p, screen := newPreview(t)

	p.Draw()

	// map is 10x6 centred on a 20x10 screen: x from 5, row 0 on screen line 7
	for _, c := range [][2]int{{0, 0}, {9, 0}, {0, 5}, {4, 2}} {
		tl, err := p.gmap.At(c[0], c[1])
		require.Nil(t, err)

		r, _, _, _ := screen.GetContent(5+c[0], 7-c[1])
		assert.Equal(t, GlyphFor(tl.Type), r, "cell %v", c)
	}

	r, _, _, _ := screen.GetContent(5+5, 7-3)
	assert.Equal(t, '@', r)

	r, _, _, _ = screen.GetContent(0, 0)
	assert.Equal(t, ' ', r)
}

func TestCreatureAnimates(t *testing.T) {
	p, screen := newPreview(t)

	assert.Equal(t, '@', p.Creature())

	p.Update(100 * time.Millisecond)
	p.Draw()
	assert.Equal(t, '&', p.Creature())

	r, _, _, _ := screen.GetContent(10, 4)
	assert.Equal(t, '&', r)

	p.Update(100 * time.Millisecond)
	assert.Equal(t, '@', p.Creature())
}

func TestGlyphFor(t *testing.T) {
	assert.Equal(t, ',', GlyphFor(northlands.Grass1))
	assert.Equal(t, '\'', GlyphFor(northlands.Grass4))
	assert.Equal(t, '?', GlyphFor(northlands.Custom))
}

func TestRunQuitsOnKey(t *testing.T) {
	p, screen := newPreview(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	done := make(chan error)
	go func() {
		done <- p.Run(ctx)
	}()

	screen.InjectKey(tcell.KeyRune, 'q', tcell.ModNone)

	select {
	case err := <-done:
		assert.Nil(t, err)
		assert.Nil(t, ctx.Err())
	case <-time.After(5 * time.Second):
		t.Fatal("preview did not quit")
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	p, _ := newPreview(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.Nil(t, p.Run(ctx))
}
