package lesson

import "github.com/harmonyquest/harmonyquest/internal/progress"

// syncDoneMsg reports the backend mirror of a lesson completion.
type syncDoneMsg struct {
	Result progress.SyncResult
}
