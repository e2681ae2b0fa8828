// Package config loads settings for the server and bot processes from
// config.yaml and TASKLINK_* environment variables.
package config
