// Package services implements the two external catalogs behind [MusicCatalog] and [VideoCatalog].
//
// # Client
//
// Every outbound call goes through [Client], a GET-only JSON client with a fixed
// timeout. Rate-limit statuses (403 and 429 by default) are retried after a fixed
// backoff up to a retry ceiling; everything else fails immediately:
//   - [shared.ErrPersistentRateLimit] : retries exhausted
//   - [StatusError] (wraps [shared.ErrAPIRequest]) : any other non-2xx status
//   - [shared.ErrAPIRequest] : transport or decoding failure
//
// The client never sleeps between successful calls; callers pace themselves.
//
// # iTunes
//
// [ITunesService] uses the public search endpoint (no credentials) and returns up to
// limit song candidates, each with its raw releaseDate.
//
// # YouTube
//
// [YouTubeService] uses the YouTube Data API v3 with an API key:
//   - videos.list?part=status for batched visibility checks (up to 50 ids)
//   - search.list?type=video&maxResults=1 for replacement lookups, which costs quota
package services
