package core

// Session is the opaque capability every underlying automation session
// offers. Callers type-assert to Browser or MobileDriver for the rest.
type Session interface {
	ExecuteScript(script string, args ...any) (any, error)
}

// Browser is a web automation session.
type Browser interface {
	Session
	Navigate(url string) error
	MaximizeWindow() error
	Quit() error
}

// MobileDriver is a mobile app automation session. It is created outside the
// pool (the device session already exists when the run starts) and handed in
// through RunContext.
type MobileDriver interface {
	Session
	TerminateApp(appPackage string) (bool, error)
	QueryAppState(appPackage string) (AppState, error)
	// CloseApp forcibly closes the app under test.
	CloseApp() error
}

// VisualValidator finalizes pending visual or result validation for a
// persona. It runs first during teardown.
type VisualValidator interface {
	HandleTestResults(persona string) error
}

// ConnReleaser releases pooled network connections used for log shipping.
// *http.Client satisfies it.
type ConnReleaser interface {
	CloseIdleConnections()
}
