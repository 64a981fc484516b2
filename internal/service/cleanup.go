// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package service

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// defaultCleanupTimeout bounds one storage cleanup call.
const defaultCleanupTimeout = 30 * time.Second

// cleaner removes storage objects after the database change that orphaned
// them has been committed. It never returns an error.
type cleaner struct {
	storage Storage
	timeout time.Duration
	wg      sync.WaitGroup
}

func newCleaner(s Storage) *cleaner {
	return &cleaner{storage: s, timeout: defaultCleanupTimeout}
}

// now deletes keys before returning. The request context is detached so a
// client disconnect does not abandon the cleanup halfway.
func (c *cleaner) now(ctx context.Context, op string, keys []string) {
	if len(keys) == 0 {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.timeout)
	defer cancel()
	c.run(ctx, op, keys)
}

// later deletes keys in the background. Wait blocks until it is done.
func (c *cleaner) later(ctx context.Context, op string, keys []string) {
	if len(keys) == 0 {
		return
	}
	ctx = context.WithoutCancel(ctx)
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		ctx, cancel := context.WithTimeout(ctx, c.timeout)
		defer cancel()
		c.run(ctx, op, keys)
	}()
}

func (c *cleaner) run(ctx context.Context, op string, keys []string) {
	res, err := c.storage.DeleteFiles(ctx, keys...)
	if err != nil {
		slog.Warn("storage cleanup failed", "op", op, "keys", keys, "error", err)
		return
	}
	for key, reason := range res.Failed {
		slog.Warn("storage cleanup failed", "op", op, "key", key, "error", reason)
	}
	if len(res.Deleted) > 0 {
		slog.Debug("storage objects deleted", "op", op, "keys", res.Deleted)
	}
}

// Wait blocks until every background cleanup has finished.
func (c *cleaner) Wait() {
	c.wg.Wait()
}
