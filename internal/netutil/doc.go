// Package netutil hands out loopback ports for local WebDriver daemons.
// PortRegistry remembers every port it has handed out until it is released,
// so two browser launches in the same run never race for the same port.
package netutil
