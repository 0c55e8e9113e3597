// Package platform provides OS-facing helpers: playlist URL validation,
// download directory resolution, and file manager integration.
package platform
