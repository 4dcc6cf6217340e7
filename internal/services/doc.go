// Package services talks to the qBittorrent Web API (the collaborator).
//
// # Transport
//
// [APIService] issues raw requests against the collaborator's base URL. Every request carries the
// session cookie (SID) it is given, a Referer matching the base URL (qBittorrent's CSRF check),
// passes through an optional [rate.Limiter] and runs on an [http.Client] with a timeout.
//
// # Client
//
// [Client] implements [TorrentService] on top of the transport:
//   - Login: POST /api/v2/auth/login, returns a [Session] holding the SID cookie
//   - Torrents: GET /api/v2/torrents/info
//   - AddTorrent: POST /api/v2/torrents/add
//   - Version: GET /api/v2/app/version
//
// Nothing is cached: callers log in once per inbound request and drop the [Session] afterwards.
// There is no retry; a failed call is reported once.
//
// # Error Handling
//
//   - [*AuthError] : login answered with a non-200 status or without a SID cookie (wraps [shared.ErrAuthFailed])
//   - [*APIError] : any other endpoint answered non-200 (wraps [shared.ErrAPIRequest])
//   - [shared.ErrServiceUnavailable] : transport failure, timeout or cancellation
//   - [shared.ErrMalformedResponse] : a JSON body could not be decoded
package services
