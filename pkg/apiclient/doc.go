/*
Package apiclient is the typed HTTP client for the carebook appointment
backend.

# Overview

A Client wraps every REST call the portal makes: authentication, appointment
booking and status transitions, the doctor and patient directories, and the
dashboard aggregates. All calls take a context, run against a bounded
per-request timeout, and normalize failures into *APIError values tagged with
a Kind.

	client := apiclient.New("http://localhost:8080")

	resp, err := client.Login(ctx, "pat@example.com", "secret")
	if err != nil {
		// apiclient.IsUnauthorized(err), apiclient.IsTransient(err), ...
	}

	client.SetCredential(resp.Token)
	me, err := client.CurrentUser(ctx)

# Credential handling

SetCredential installs a default bearer token attached to every request.
A caller-supplied Authorization header is never overwritten. The client
holds the credential in memory only; persistence belongs to the session
store, not here.

# Failure taxonomy

Backend failures collapse into five kinds, and the session layer's whole
behavior hangs off this classification:

  - KindUnauthorized (401/403): the credential is authoritatively dead.
  - KindTimeout: the request hit the client-side deadline.
  - KindNetwork: no response at all (DNS, refused connection).
  - KindServer (5xx): backend trouble, credential state unknown.
  - KindOther: everything else.

Timeout and network failures are transient: they never prove the credential
invalid, so callers retry or degrade instead of logging the user out.

# Login throttling

Password attempts are rate limited inside the process (5 per minute) before
any bytes leave the machine. A tripped limiter returns ErrLoginThrottled
without consuming a network round trip.
*/
package apiclient
