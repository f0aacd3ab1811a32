// Package activity implements the Temporal activities that run the batch
// pipeline over dataset partitions. It includes context-safe logging and
// heartbeat helpers shared by all activity implementations.
package activity

import (
	"context"

	"go.temporal.io/sdk/activity"
)

// SafeLog performs context-safe logging that works in both activity and
// test contexts. In a Temporal activity context it uses the activity
// logger; outside one it silently ignores the call instead of panicking.
func SafeLog(ctx context.Context, msg string, keyvals ...any) {
	defer func() {
		if recover() != nil {
			// Not an activity context, ignore.
		}
	}()
	activity.GetLogger(ctx).Info(msg, keyvals...)
}

// SafeLogError is SafeLog at ERROR level.
func SafeLogError(ctx context.Context, msg string, keyvals ...any) {
	defer func() {
		if recover() != nil {
			// Not an activity context, ignore.
		}
	}()
	activity.GetLogger(ctx).Error(msg, keyvals...)
}

// RecordHeartbeat safely records activity heartbeat with details.
// Heartbeats let long partition scans indicate progress and avoid
// timeouts; outside an activity context the call is a no-op.
func RecordHeartbeat(ctx context.Context, details ...any) {
	defer func() {
		if recover() != nil {
			// Not an activity context, ignore.
		}
	}()
	activity.RecordHeartbeat(ctx, details...)
}
