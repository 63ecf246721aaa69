package tui

// MsgReloadStarted is sent when a changed template starts reloading.
type MsgReloadStarted struct {
	Path string
}

// MsgReloadFinished is sent when a reload ends. Views lists what was recompiled.
type MsgReloadFinished struct {
	Path  string
	Views []string
	Err   error
}

// MsgFeedEnded is sent when the feed has been closed.
type MsgFeedEnded struct{}
