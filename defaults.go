package personapool

import (
	"github.com/giantswarm/personapool/internal/policy/android"
	"github.com/giantswarm/personapool/internal/policy/web"
	"github.com/giantswarm/personapool/internal/shell"
	"github.com/giantswarm/personapool/internal/webdriver"
)

// Default configuration values.
const (
	// DefaultAndroidCapacity is the number of concurrent Android sessions:
	// there is one device per run.
	DefaultAndroidCapacity = android.DefaultCapacity

	// DefaultWebCapacity is the number of concurrent browser sessions.
	DefaultWebCapacity = web.DefaultCapacity

	// DefaultRemoteURL is the Selenium hub of unattended web sessions.
	DefaultRemoteURL = web.DefaultRemoteURL

	// DefaultCloudScript is the device cloud script unattended Android runs
	// use to execute adb commands.
	DefaultCloudScript = android.DefaultCloudScript

	// DefaultCommandTimeout bounds every command run by ExecCommand.
	DefaultCommandTimeout = shell.DefaultTimeout

	// DefaultChromeDriver is the chromedriver binary looked up in PATH for
	// attended web sessions.
	DefaultChromeDriver = webdriver.DefaultChromeDriver
)
