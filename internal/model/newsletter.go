// Copyright (c) 2025-2026 Pressroom Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package model

// Newsletter subscriber status values.
const (
	SubscriberPending      = "pending"
	SubscriberConfirmed    = "confirmed"
	SubscriberUnsubscribed = "unsubscribed"
)

// ValidSubscriberStatuses contains all valid subscriber statuses.
var ValidSubscriberStatuses = []string{SubscriberPending, SubscriberConfirmed, SubscriberUnsubscribed}

// IsValidSubscriberStatus checks if a subscriber status is valid.
func IsValidSubscriberStatus(status string) bool {
	for _, s := range ValidSubscriberStatuses {
		if s == status {
			return true
		}
	}
	return false
}
