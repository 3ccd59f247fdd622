// Package acl keeps upstream representations out of the domain.
//
// Two upstreams are translated here:
//
//   - The language model (OpenAI Chat Completions with strict JSON schema
//     output), see [OracleClient]. Its raw JSON is decoded into unexported
//     DTOs, star ratings are clamped, and the result becomes a
//     [domain.Fortune] or a normalised [domain.Reading].
//   - The hosted profile table (a PostgREST endpoint), see [ProfileAdapter].
//     Rows are read through [clients.Client] and reduced to the paid flag.
//
// Upstream failures never leave this package as transport errors.
// [MapUpstreamError] turns them into domain errors:
//
//   - 404 Not Found → [domain.ErrNotFound]
//   - 429, 5xx, network errors, open circuit → [domain.ErrUnavailable]
//   - other 4xx, including rejected credentials → [domain.ErrUnavailable]
//
// Callers therefore only need the domain predicates.
package acl
