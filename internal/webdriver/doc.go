// Package webdriver starts Chrome sessions over the W3C WebDriver protocol.
//
// A Launcher either runs a private chromedriver on a free loopback port
// (attended runs) or connects to a remote Selenium hub (unattended runs).
// Either way the caller gets a core.Browser whose Quit also stops whatever
// the launcher started.
package webdriver
