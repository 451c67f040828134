package app

// Key binding constants used in the key handlers.
const (
	KeyQuit       = "q"
	KeyQuitUpper  = "Q"
	KeyCtrlC      = "ctrl+c"
	KeySwitchView = "ctrl+t"
	KeySpace      = " "
	KeyTab        = "tab"
	KeyEnter      = "enter"
	KeyEsc        = "esc"
	KeyUp         = "up"
	KeyDown       = "down"
	KeyJ          = "j"
	KeyK          = "k"

	KeyMode     = "m"
	KeyVoice    = "v"
	KeyAccept   = "y"
	KeyDismiss  = "n"
	KeyPlayback = "p"
	KeyChat     = "c"

	KeyRemember     = "r"
	KeyRememberThis = "R"
	KeyRememberCtrl = "ctrl+r"
	KeyMemoryPanel  = "M"
	KeyDeleteFact   = "d"
	KeyToggleMemory = "e"
	KeyClearMemory  = "C"
)
