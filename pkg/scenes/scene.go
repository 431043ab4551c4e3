package scenes

import (
	"github.com/decker502/diplomacy-playback/pkg/game"
)

// Scene is a type alias for game.Scene so callers only need to import scenes.
type Scene = game.Scene

var (
	_ Scene         = (*PlaybackScene)(nil)
	_ game.Saveable = (*PlaybackScene)(nil)
)
