/*
Package paths holds the precomputed truck path traces and resolves where each
truck is at a given simulated time.

An Index is built once at startup from a finite list of traces and is
read-only afterwards, so it can be shared between goroutines without locking.

# Activity

A trace is active at t when its first waypoint is strictly before t and its
last waypoint strictly after t. A truck sitting exactly on either boundary is
not active.

# Location lookup

LocationAt brackets t with a binary search over the waypoints and blends the
two bracketing locations by the elapsed proportion p of the segment.

The default InterpolationInverted weights the earlier waypoint by p and the
later one by 1-p:

	lat = before.Lat*p + after.Lat*(1-p)

so the computed point moves toward the earlier waypoint as time advances.
This is the behaviour of the tracker the paths were generated for and is kept
as the default contract. It looks like swapped operands; InterpolationLinear
gives conventional interpolation and can be selected in configuration.
*/
package paths
