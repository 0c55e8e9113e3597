// Package extract resolves playlist metadata and downloads individual
// entries. The primary resolver talks to YouTube through the
// kkdai/youtube client; when it cannot enumerate a playlist, a
// lightweight fallback resolver takes over.
package extract
