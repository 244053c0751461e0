/*
Package session provides the message transport between two parties.

A Session is an ordered exchange of Message frames. Two transports are
provided: Network, an in-memory transport where every message is encoded and
decoded on the way, and a websocket transport (Dialer and Server) where every
message travels as a single binary frame.

A party that refuses to continue sends a reject message with the code and the
description of its error. The receiving side rebuilds it as a RejectError.
*/
package session
