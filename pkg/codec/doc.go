// Package codec maps component graphs to URL-safe share tokens and back.
//
// A token is the canonical JSON of the graph (see graph.Marshal), compressed
// with raw DEFLATE at best compression and encoded as unpadded base64url:
//
//	token := codec.Encode(g)
//	g, ok := codec.Decode(token) // ok is false for anything but a valid token
//
// Decoding is total. An empty, truncated, tampered or foreign token yields
// ok == false and the empty graph; callers fall back to starting empty.
// [Inspect] returns the reason instead, for logs and the decode command.
//
// [ShareURL] and [FromURL] keep the token in the "data" query parameter of a
// page URL, which is how graphs are shared.
package codec
