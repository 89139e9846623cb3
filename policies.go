package personapool

import (
	"context"

	"github.com/giantswarm/personapool/internal/appium"
	"github.com/giantswarm/personapool/internal/netutil"
	"github.com/giantswarm/personapool/internal/policy/android"
	"github.com/giantswarm/personapool/internal/policy/web"
	"github.com/giantswarm/personapool/internal/webdriver"
)

type (
	// AndroidConfig configures NewAndroidPolicy.
	AndroidConfig = android.Config
	// WebConfig configures NewWebPolicy.
	WebConfig = web.Config
	// CommandRunner runs host commands for the Android policy.
	CommandRunner = android.CommandRunner
	// BrowserLauncher starts browsers for the web policy.
	BrowserLauncher = web.Launcher
	// BrowserOptions describes one browser session.
	BrowserOptions = webdriver.Options
)

// NewAndroidPolicy returns the Android policy for use with WithPolicies.
//
//nolint:ireturn // Policy interface by design.
func NewAndroidPolicy(cfg AndroidConfig) Policy {
	return android.New(cfg)
}

// NewWebPolicy returns the web policy for use with WithPolicies.
//
//nolint:ireturn // Policy interface by design.
func NewWebPolicy(cfg WebConfig) Policy {
	return web.New(cfg)
}

// NewBrowserLauncher returns the chromedriver/Selenium launcher the web
// policy uses by default, with its own port registry. An empty chromeDriver
// means DefaultChromeDriver.
//
//nolint:ireturn // BrowserLauncher interface by design.
func NewBrowserLauncher(chromeDriver string) BrowserLauncher {
	l := webdriver.NewLauncher(netutil.NewPortRegistry(nil), nil)
	if chromeDriver != "" {
		l.ChromeDriver = chromeDriver
	}
	return l
}

// ConnectAppium opens an Appium UiAutomator2 session for appPackage on the
// device with the given serial, ready to be used as RunContext.MobileDriver.
// An empty serverURL means the local default server.
//
//nolint:ireturn // MobileDriver interface by design.
func ConnectAppium(ctx context.Context, serverURL, serial, appPackage string) (MobileDriver, error) {
	d, err := appium.Connect(ctx, serverURL, serial, appPackage)
	if err != nil {
		return nil, err
	}
	return d, nil
}
