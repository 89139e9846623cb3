package webdriver

import (
	"github.com/tebeka/selenium"
	"github.com/tebeka/selenium/chrome"
	sellog "github.com/tebeka/selenium/log"
)

// Options describes one browser session.
type Options struct {
	// Name labels the chromedriver process and its capture files.
	Name string
	// Prefs are Chrome profile preferences.
	Prefs map[string]any
	// ExcludeSwitches are Chrome default switches to drop.
	ExcludeSwitches []string
	// Args are extra Chrome command line arguments.
	Args []string
	// LogPath receives the chromedriver log in local mode.
	LogPath string
	// RemoteURL selects remote mode when set.
	RemoteURL string
}

// Capabilities returns the WebDriver capabilities requesting Chrome with
// opts applied and browser logging at level ALL.
func Capabilities(opts Options) selenium.Capabilities {
	caps := selenium.Capabilities{"browserName": "chrome"}
	caps.AddChrome(chrome.Capabilities{
		Prefs:           opts.Prefs,
		ExcludeSwitches: opts.ExcludeSwitches,
		Args:            opts.Args,
	})
	caps.AddLogging(sellog.Capabilities{
		sellog.Browser: sellog.All,
	})
	return caps
}
