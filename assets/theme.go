package assets

// Cabinet glyphs.
const (
	GlyphClawOpen   = "🪝"
	GlyphClawClosed = "🔻"
	GlyphRope       = "│"
	GlyphCoin       = "🪙"
	GlyphTimer      = "⏱"
	GlyphTrophy     = "🏆"
)

// Title is drawn across the top of the cabinet.
const Title = "SNAG FRENZY"

// HelpLine lists the controls under the message log.
const HelpLine = "c: coin  ←/→ or h/l: move  space: grab  i: collection  q: quit"

// ReadyLine is shown when a coin starts a round.
const ReadyLine = "Move the claw with arrow keys, press SPACE to grab!"
