package fri

import "errors"

var (
	// ErrMessageTooShort indicates that a datagram is shorter than the
	// minimum size of its message type.
	ErrMessageTooShort = errors.New("message too short")

	// ErrInvalidMagic indicates that a datagram does not start with the
	// protocol magic bytes.
	ErrInvalidMagic = errors.New("invalid message magic")

	// ErrVersionMismatch indicates that the major protocol version of a
	// datagram differs from ProtocolVersionMajor.
	ErrVersionMismatch = errors.New("protocol version mismatch")

	// ErrInvalidMsgType indicates that the message type byte of a datagram
	// does not match the expected message type.
	ErrInvalidMsgType = errors.New("invalid message type")

	// ErrTrailingBytes indicates that a datagram carries bytes beyond the
	// end of its declared content.
	ErrTrailingBytes = errors.New("unexpected trailing bytes")
)

var (
	// ErrUnmappedSessionState indicates that a decoded session state has no
	// lifecycle callback mapping. This is fatal; it means the peer speaks a
	// newer, incompatible protocol revision.
	ErrUnmappedSessionState = errors.New("session state has no callback mapping")
)

var (
	// ErrConnClosed indicates that the transport connection is closed.
	ErrConnClosed = errors.New("connection closed")

	// ErrConnOpened indicates that the transport connection is already open.
	ErrConnOpened = errors.New("connection already opened")

	// ErrReceiveTimeout indicates that no datagram arrived within the
	// per-cycle receive timeout. The cyclic loop treats this as a missed
	// cycle, not as a failure.
	ErrReceiveTimeout = errors.New("receive timeout")

	// ErrPeerUnknown indicates that a send was attempted before the remote
	// peer address is known.
	ErrPeerUnknown = errors.New("remote peer address unknown")
)

var (
	// ErrUnknownIOName indicates that no IO value with the requested name
	// exists in the current robot state.
	ErrUnknownIOName = errors.New("unknown IO value name")
)
