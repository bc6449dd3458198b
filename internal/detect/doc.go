// Package detect probes the local environment: which package manager a
// project uses (by lockfile) and which tool binaries are on PATH. Doctor
// and the post-generation integrations both build on it.
package detect
