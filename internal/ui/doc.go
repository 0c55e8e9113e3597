// Package ui implements the Fyne desktop interface: the playlist URL
// entry, the selectable entry list with thumbnails, the batch status
// console and the settings dialog.
package ui
