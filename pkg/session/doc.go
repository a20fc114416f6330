/*
Package session serializes edit sessions on node instances.

An edit session is the span between a field edit arriving and its effect
completing. The Manager runs at most one session per instance at a time in
this process and, with a DistributedLocker, across every replica sharing
the graph-state store.
*/
package session
