package webdriver

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tebeka/selenium"
)

// fakeWebDriver records the calls the browser adapter makes. Methods it does
// not override panic through the nil embedded interface.
type fakeWebDriver struct {
	selenium.WebDriver

	visited   []string
	maximized int
	scripts   []string
	args      [][]any
	quits     int
	quitErr   error
}

func (f *fakeWebDriver) SessionID() string { return "session-1" }

func (f *fakeWebDriver) Get(url string) error {
	f.visited = append(f.visited, url)
	return nil
}

func (f *fakeWebDriver) MaximizeWindow(name string) error {
	if name != "" {
		return errors.New("only the current window is supported")
	}
	f.maximized++
	return nil
}

func (f *fakeWebDriver) ExecuteScript(script string, args []any) (any, error) {
	f.scripts = append(f.scripts, script)
	f.args = append(f.args, args)
	return "ok", nil
}

func (f *fakeWebDriver) Quit() error {
	f.quits++
	return f.quitErr
}

// writeScript writes an executable shell script standing in for chromedriver.
func writeScript(tb testing.TB, body string) string {
	tb.Helper()
	path := filepath.Join(tb.TempDir(), "chromedriver")
	require.NoError(tb, os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755))
	return path
}
