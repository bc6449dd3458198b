// Package project manages the project-level .bakery/project.yaml state file.
// It records which archetype and framework a project was generated from and
// which addons have been applied, so repeat applications can be skipped and
// later addons can resolve the project's template context.
package project
