package render

import (
	"strings"
	"testing"

	"snag-frenzy/assets"
	"snag-frenzy/internal/bin"
	"snag-frenzy/internal/inventory"
	"snag-frenzy/internal/prize"

	"github.com/gdamore/tcell/v2"
)

func TestCameraRoundTrip(t *testing.T) {
	c := NewCamera(1, 62)
	cases := []struct {
		x    float64
		want int
	}{
		{0, 1},
		{50, 31},
		{100, 61},
		{-10, 1},
		{150, 61},
	}
	for _, tc := range cases {
		if got := c.ToScreen(tc.x); got != tc.want {
			t.Errorf("ToScreen(%v) = %d, want %d", tc.x, got, tc.want)
		}
	}
	if got := c.ToCabinet(31); got != 50 {
		t.Errorf("ToCabinet(31) = %v, want 50", got)
	}
	if got := c.ToCabinet(-5); got != 0 {
		t.Errorf("ToCabinet(-5) = %v, want 0", got)
	}
}

func TestPileRowStaysInsideCabinet(t *testing.T) {
	for _, off := range []int{-5, 0, 10, 24, 25, 60, 500} {
		row := pileRow(off)
		if row >= frameBottom() || row < frameBottom()-pileRows {
			t.Errorf("pileRow(%d) = %d outside pile", off, row)
		}
	}
	if pileRow(60) >= pileRow(10) {
		t.Errorf("higher offsets should draw higher")
	}
}

func newSimScreen(t *testing.T, w, h int) tcell.SimulationScreen {
	t.Helper()
	s := tcell.NewSimulationScreen("UTF-8")
	if err := s.Init(); err != nil {
		t.Fatalf("init: %v", err)
	}
	s.SetSize(w, h)
	t.Cleanup(s.Fini)
	return s
}

// row returns the runes drawn on screen row y.
func row(s tcell.SimulationScreen, y int) string {
	cells, w, _ := s.GetContents()
	var b strings.Builder
	for x := 0; x < w; x++ {
		if runes := cells[y*w+x].Runes; len(runes) > 0 {
			b.WriteString(string(runes))
		}
	}
	return b.String()
}

func TestDrawFrameShowsCabinet(t *testing.T) {
	s := newSimScreen(t, 100, 30)
	r := NewRenderer(s)
	rock := prize.Item{Name: "Rock", ImageRef: assets.GlyphRock, Rarity: prize.Common}
	r.DrawFrame(Cabinet{
		Coins:          3,
		Playing:        true,
		ClawX:          50,
		TimeRemaining:  4,
		RoundSeconds:   10,
		Bin:            bin.Bin{{Item: rock, X: 20, Offset: 10}},
		Messages:       []string{"one", "two", "three", "four"},
		Inventory:      []inventory.Entry{{Key: "Rock", Name: "Rock", ImageRef: assets.GlyphRock, Rarity: prize.Common, Count: 2}},
		Gallery:        []prize.Item{{Name: "Blob", Rarity: prize.Rare, IsCustom: true, Creator: "kit"}},
		ShowCollection: true,
	})

	if !strings.Contains(row(s, titleRow), assets.Title) {
		t.Errorf("title row = %q", row(s, titleRow))
	}
	if !strings.Contains(row(s, railRow), assets.GlyphClawOpen) {
		t.Errorf("rail row = %q, want open claw", row(s, railRow))
	}
	if !strings.Contains(row(s, pileRow(10)), assets.GlyphRock) {
		t.Errorf("pile row = %q, want rock", row(s, pileRow(10)))
	}
	hud := row(s, frameBottom()+1)
	if !strings.Contains(hud, "x3") || !strings.Contains(hud, "4s") {
		t.Errorf("hud = %q", hud)
	}
	if strings.Contains(row(s, frameBottom()+2), "one") {
		t.Error("message log should show only the last three")
	}
	if !strings.Contains(row(s, frameTop+1), "Rock x2") {
		t.Errorf("collection row = %q", row(s, frameTop+1))
	}
	if !strings.Contains(row(s, frameTop+3), "SUBMITTED") {
		t.Errorf("gallery header row = %q", row(s, frameTop+3))
	}
	if got := row(s, frameTop+4); !strings.Contains(got, "Blob") || !strings.Contains(got, "by kit") {
		t.Errorf("gallery row = %q", got)
	}
}

func TestDrawFrameClawDownDrawsRope(t *testing.T) {
	s := newSimScreen(t, 70, 24)
	r := NewRenderer(s)
	r.DrawFrame(Cabinet{ClawX: 30, ClawDown: true, RoundSeconds: 10})

	if strings.Contains(row(s, railRow), assets.GlyphClawOpen) {
		t.Error("open claw still on the rail during a grab")
	}
	if !strings.Contains(row(s, railRow), assets.GlyphRope) {
		t.Errorf("rail row = %q, want rope", row(s, railRow))
	}
	if !strings.Contains(row(s, frameBottom()-pileRows-1), assets.GlyphClawClosed) {
		t.Error("closed claw missing above the pile")
	}
}
