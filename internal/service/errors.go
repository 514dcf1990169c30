// Copyright (c) 2025-2026 Pressroom Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import "errors"

// Sentinel errors shared by the services. Handlers map these onto
// HTTP conflict responses.
var (
	ErrMediaInUse   = errors.New("media file is in use")
	ErrFormHasData  = errors.New("form has submissions")
	ErrCycleInUse   = errors.New("billing cycle has prices")
	ErrSnippetInUse = errors.New("snippet is referenced by page sections")
	ErrLastAdmin    = errors.New("cannot remove the last active administrator")
)
