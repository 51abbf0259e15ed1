// Package friudp provides the UDP transport and the cyclic control loop
// for the FRI-style protocol implemented by the fri package.
//
// Connection implements the fri.Transport contract on a point-to-point UDP
// socket: it binds a local port, optionally fixes the remote peer up front
// or learns it from the first received datagram, and bounds every receive
// with a per-cycle timeout. Closing the connection unblocks a pending
// receive immediately.
//
// Application owns a Connection and a fri.SessionStateMgr and drives one
// protocol cycle per Step call: receive, decode, advance the session state
// machine, invoke the selected lifecycle callback of the user-supplied
// fri.Client, validate, encode and transmit the command. A receive timeout
// skips the cycle and feeds the local connection-quality estimate; decode
// and validation failures are counted and survived; transport failures and
// protocol version mismatches end the session.
//
// The controlling caller invokes Step from a single goroutine; Disconnect
// is the only operation that is safe to call concurrently with an in-flight
// cycle.
package friudp
