package redis

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/MrSnakeDoc/desk/internal/logger"
)

func validOptions() ConnectOptions {
	return ConnectOptions{
		Addr:           "127.0.0.1:1",
		DialTimeout:    50 * time.Millisecond,
		ReadTimeout:    50 * time.Millisecond,
		WriteTimeout:   50 * time.Millisecond,
		PoolSize:       1,
		ConnectTimeout: 200 * time.Millisecond,
		RetryInterval:  20 * time.Millisecond,
		MaxWait:        40 * time.Millisecond,
		PingTimeout:    50 * time.Millisecond,
		WarnThreshold:  1,
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*ConnectOptions)
		want   string
	}{
		{name: "connect timeout", mutate: func(o *ConnectOptions) { o.ConnectTimeout = 0 }, want: "ConnectTimeout"},
		{name: "retry interval", mutate: func(o *ConnectOptions) { o.RetryInterval = -1 }, want: "RetryInterval"},
		{name: "max wait", mutate: func(o *ConnectOptions) { o.MaxWait = 0 }, want: "MaxWait"},
		{name: "ping timeout", mutate: func(o *ConnectOptions) { o.PingTimeout = 0 }, want: "PingTimeout"},
		{name: "warn threshold", mutate: func(o *ConnectOptions) { o.WarnThreshold = -1 }, want: "WarnThreshold"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := validOptions()
			tt.mutate(&opts)
			err := opts.validate()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("validate() error = %v, want mention of %s", err, tt.want)
			}
		})
	}

	if err := validOptions().validate(); err != nil {
		t.Errorf("validate() on valid options error = %v", err)
	}
}

func TestConnectGivesUp(t *testing.T) {
	start := time.Now()
	client, err := Connect(context.Background(), validOptions(), logger.NewNop())
	if err == nil {
		_ = client.Close()
		t.Fatal("Connect() to a closed port succeeded")
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("Connect() took %v, want it bounded by ConnectTimeout", elapsed)
	}
	if !strings.Contains(err.Error(), "redis unavailable") {
		t.Errorf("Connect() error = %v", err)
	}
}

func TestConnectHonorsCancellation(t *testing.T) {
	opts := validOptions()
	opts.ConnectTimeout = time.Minute

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	start := time.Now()
	if _, err := Connect(ctx, opts, logger.NewNop()); err == nil {
		t.Fatal("Connect() succeeded, want error")
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Errorf("Connect() ignored cancellation, took %v", elapsed)
	}
}
