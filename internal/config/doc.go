// Package config manages user-level settings stored at ~/.bakery/config.yaml.
// It provides functions to load, read, and write configuration keys such as
// color output and the preferred package manager.
package config
