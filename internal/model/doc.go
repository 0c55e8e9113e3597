// Package model contains the core data types shared by the application:
// playlist entries, the user's selection, download options, and the
// per-batch outcome accounting.
package model
