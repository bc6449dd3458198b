// Package userdata manages the ~/.bakery home directory including the config
// and sources files, the catalog checkout location, and the discovery caches.
// It handles initialization, path resolution, mode detection, and the health
// checks behind the doctor command.
package userdata
