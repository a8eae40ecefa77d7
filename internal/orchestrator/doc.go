// Package orchestrator brings an ordered list of OS-managed services into a
// running, port-bound state and reports a structured result.
//
// The orchestrator is deliberately sequential: a later service is never
// started before an earlier essential one has confirmed running, because
// mail daemons routinely consume sockets created by their predecessors
// (Postfix talking to Dovecot's auth socket, for example). All interaction
// with the host goes through the ServiceManager, PortChecker and
// ProcessRunner interfaces so the whole state machine is unit-testable
// without touching systemd or the network.
package orchestrator
