// Package runconfig loads the settings of a test run from a properties file,
// the process environment and an optional per-environment JSON file.
//
// Environment variables override the properties file. The base URL of web
// sessions is resolved indirectly: BASE_URL_FOR_WEB names the key to read
// from the TARGET_ENVIRONMENT section of ENVIRONMENT_CONFIG_FILE.
package runconfig
