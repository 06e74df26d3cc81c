package main

import (
	"context"
	"net"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *Config {
	t.Helper()
	cfg := loadConfig()
	cfg.StorageBackend = "sqlite"
	cfg.SQLitePath = filepath.Join(t.TempDir(), "storefront.db")
	cfg.HTTPPort = "0"
	cfg.ShutdownTimeout = time.Second
	return cfg
}

func TestRun_InvalidPolicyReturnsError(t *testing.T) {
	log, _ := test.NewNullLogger()
	cfg := testConfig(t)
	cfg.NonPositiveQuantity = "explode"

	err := run(context.Background(), cfg, log)
	assert.ErrorContains(t, err, "CART_NONPOSITIVE_QUANTITY")
}

func TestRun_UnknownBackendReturnsError(t *testing.T) {
	log, _ := test.NewNullLogger()
	cfg := testConfig(t)
	cfg.StorageBackend = "floppy"

	err := run(context.Background(), cfg, log)
	assert.ErrorContains(t, err, "unknown STORAGE_BACKEND")
}

func TestRun_ListenFailureReturnsError(t *testing.T) {
	l, err := net.Listen("tcp", ":0")
	require.NoError(t, err)
	defer l.Close()

	log, _ := test.NewNullLogger()
	cfg := testConfig(t)
	cfg.HTTPPort = strconv.Itoa(l.Addr().(*net.TCPAddr).Port)

	err = run(context.Background(), cfg, log)
	assert.ErrorContains(t, err, "server error")
}

func TestRun_StopsWhenContextCancelled(t *testing.T) {
	log, _ := test.NewNullLogger()
	cfg := testConfig(t)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- run(ctx, cfg, log) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("run did not return after cancellation")
	}
}

func TestOpenStorage_Memory(t *testing.T) {
	log, _ := test.NewNullLogger()
	cfg := testConfig(t)
	cfg.StorageBackend = "memory"

	st, closeFn, err := openStorage(context.Background(), cfg, log)
	require.NoError(t, err)
	require.NotNil(t, st)
	closeFn()
}
