// Package fileutil prepares the directories session logs are written to and
// copies log files into the reporting ledger's attachment store.
package fileutil
