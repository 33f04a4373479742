// Package server is the HTTP backend of the card scanner page.
//
// A printed card carries a QR code with its card URL (cards.base_url + song id). The scanner page
// decodes it and asks this server for the song:
//
//	GET /songs.json       the collection file as stored
//	GET /api/songs        {count, songs}
//	GET /api/songs/{id}   one song with cardUrl and videoUrl
//	GET /health           liveness
//
// [SongsHandler] serves all four and re-reads the collection when the file changes, so a
// reconciliation run shows up without a restart. [BasicRouter] wraps handlers in the
// [Logging] and [CORS] middleware.
package server
