// Package network provides the ordered get-or-create engine used to build
// and tear down a cluster's network stack. Providers declare their stack as
// a Template of steps; the engine walks it forward to converge on a working
// network and in reverse to remove it, continuing past failures so a broken
// teardown still reclaims as much as it can.
package network
