package play

import (
	"github.com/abhisek/stepquiz/internal/navigation"
	"github.com/abhisek/stepquiz/internal/player"
)

// navigatedMsg carries the result of sending an intent. Snap is zero when
// the failure was fatal for the session.
type navigatedMsg struct {
	Intent navigation.Intent
	Snap   player.Snapshot
	Err    error
}
