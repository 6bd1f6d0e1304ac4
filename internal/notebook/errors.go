package notebook

import "errors"

// ErrSyncDisabled is returned by Sync when no remote is configured.
var ErrSyncDisabled = errors.New("sync is not configured")
