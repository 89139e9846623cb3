// Package appium adapts a WebDriver session connected to an Appium server
// into the core.MobileDriver the Android policy works with.
package appium

import (
	"context"
	"fmt"
	"strings"

	"github.com/tebeka/selenium"

	"github.com/giantswarm/personapool/internal/core"
)

// DefaultServerURL is the usual local Appium endpoint.
const DefaultServerURL = "http://127.0.0.1:4723"

// Driver is a mobile session bound to one app package.
type Driver struct {
	wd         selenium.WebDriver
	appPackage string
}

var _ core.MobileDriver = (*Driver)(nil)

// New wraps an established session. appPackage is the app CloseApp stops.
func New(wd selenium.WebDriver, appPackage string) *Driver {
	return &Driver{wd: wd, appPackage: appPackage}
}

// Connect opens a UiAutomator2 session on the device with the given serial
// and wraps it. An empty serial lets Appium choose the device.
func Connect(_ context.Context, serverURL, serial, appPackage string) (*Driver, error) {
	if serverURL == "" {
		serverURL = DefaultServerURL
	}
	caps := selenium.Capabilities{
		"platformName":             "Android",
		"appium:automationName":    "UiAutomator2",
		"appium:appPackage":        appPackage,
		"appium:noReset":           true,
		"appium:newCommandTimeout": 600,
	}
	if serial != "" {
		caps["appium:udid"] = serial
	}
	wd, err := selenium.NewRemote(caps, strings.TrimSuffix(serverURL, "/"))
	if err != nil {
		return nil, &core.EnvironmentSetupError{Reason: "create appium session", Err: err}
	}
	return New(wd, appPackage), nil
}

// WebDriver exposes the underlying session.
func (d *Driver) WebDriver() selenium.WebDriver {
	return d.wd
}

// ExecuteScript runs script, including Appium "mobile:" extension commands.
func (d *Driver) ExecuteScript(script string, args ...any) (any, error) {
	if args == nil {
		args = []any{}
	}
	return d.wd.ExecuteScript(script, args)
}

// TerminateApp stops pkg and reports whether it was running.
func (d *Driver) TerminateApp(pkg string) (bool, error) {
	res, err := d.ExecuteScript("mobile: terminateApp", map[string]any{"appId": pkg})
	if err != nil {
		return false, fmt.Errorf("terminate %s: %w", pkg, err)
	}
	terminated, _ := res.(bool)
	return terminated, nil
}

// QueryAppState returns the state of pkg.
func (d *Driver) QueryAppState(pkg string) (core.AppState, error) {
	res, err := d.ExecuteScript("mobile: queryAppState", map[string]any{"appId": pkg})
	if err != nil {
		return 0, fmt.Errorf("query state of %s: %w", pkg, err)
	}
	// JSON numbers decode as float64.
	n, ok := res.(float64)
	if !ok {
		return 0, fmt.Errorf("query state of %s: unexpected result %T", pkg, res)
	}
	return core.AppState(int(n)), nil
}

// CloseApp terminates the bound app package.
func (d *Driver) CloseApp() error {
	if d.appPackage == "" {
		return nil
	}
	if _, err := d.TerminateApp(d.appPackage); err != nil {
		return fmt.Errorf("close app: %w", err)
	}
	return nil
}

// Quit ends the Appium session.
func (d *Driver) Quit() error {
	return d.wd.Quit()
}
