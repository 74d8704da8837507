// Package clickhouse stores price history timeseries in ClickHouse
// over the native protocol.
package clickhouse

import (
	"context"
	"fmt"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
)

// Conn is the shared ClickHouse connection behind the stores in this
// package.
type Conn struct {
	driver.Conn
}

// NewConn opens a connection from a clickhouse:// DSN and verifies it
// with a ping. DSN parsing, including protocol selection, is delegated
// to the driver.
func NewConn(ctx context.Context, dsn string) (*Conn, error) {
	opts, err := clickhouse.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse clickhouse dsn: %w", err)
	}

	conn, err := clickhouse.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open clickhouse connection: %w", err)
	}
	if err := conn.Ping(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("ping clickhouse: %w", err)
	}

	return &Conn{Conn: conn}, nil
}

// Close closes the underlying connection.
func (c *Conn) Close() error {
	return c.Conn.Close()
}
