// Package config manages user-level settings stored at ~/.upt/config.yaml.
// Values can be overridden through UPT_* environment variables. Keys cover the
// package registry URL, the DocFx installation directory, the default log
// level, and whether documentation builds keep their working directory.
package config
