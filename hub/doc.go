// Copyright (c) 2025 the QuickPoll authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package hub maintains, per poll, two independent sets of live
subscriptions (public and creator) and fans events out to all of them.

# Subscribing

	sub := h.Subscribe(pollID, hub.Public)
	defer sub.Close()
	for ev := range sub.Events() {
		// write ev.Kind / ev.Data to the wire
	}

Subscribe immediately queues a "connected" acknowledgement. The
transport adapts Events() to its stream primitive; the hub never
touches the wire.

# Publishing

	h.Publish(pollID, models.EventVoteUpdate, payload)

Publish encodes the payload once and performs a bounded-effort,
non-blocking send to every subscription of the poll, both classes. A
subscription whose buffer is full (dead or hopelessly slow client) is
closed and removed during the publish itself, so no separate reaper is
needed. Failures never propagate to the publisher.

# Lifecycle and ordering

A Subscription moves Connected -> Closed exactly once, triggered by
client disconnect, Close, or a failed delivery; duplicate triggers are
tolerated. Events published sequentially by one goroutine arrive at
each subscription in publish order. No ordering is guaranteed across
polls or across concurrent publishers.
*/
package hub
