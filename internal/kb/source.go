// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package kb

import (
	"context"
	"errors"
	"fmt"

	"github.com/pdiddy/support-engine/pkg/types"
)

// ErrEmpty reports that no records are available. Callers see it both from
// Records before the first successful load and from a refresh whose source
// returned zero rows.
var ErrEmpty = errors.New("knowledge base is empty")

// Source supplies a complete record set. The sheet client is the primary
// source; the local snapshot is the startup fallback.
type Source interface {
	Name() string
	Fetch(ctx context.Context) ([]types.Record, error)
}

// FetchError reports a failed fetch, carrying the source name so log lines
// and CLI errors identify which source misbehaved.
type FetchError struct {
	Source string
	Err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetching records from %s: %v", e.Source, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }
