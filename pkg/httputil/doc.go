// Package httputil provides the HTTP transport used by the registry client.
//
// # Overview
//
// [Transport] implements the two network operations a registry client needs:
//
//   - [Transport.GetJSON]: GET a metadata document and decode it
//   - [Transport.DownloadFile]: stream a tarball into a temporary file
//
// Request headers are passed per call; the transport adds none of its own, so
// authentication and content negotiation stay with the caller.
//
// # Errors
//
// Non-2xx responses produce a [StatusError] whose message mirrors the status
// line ("Response error 404 Not Found"). It matches [ErrNotFound] for 404 and
// [ErrNetwork] otherwise. Connection failures wrap both [ErrNetwork] and the
// underlying error, so a cancelled context still satisfies
// errors.Is(err, context.Canceled).
//
// The transport never retries. Transient failures surface to the caller
// unchanged.
//
// # Temporary files
//
// Downloads land in os.TempDir() (or the directory given with
// [WithTempDir]) under a name derived from a random UUID, so concurrent
// downloads of the same URL never share a file. The caller removes the file.
package httputil
