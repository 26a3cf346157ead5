package postgres

import (
	"strings"
	"testing"
)

func TestLatestPoolSnapshotQuery(t *testing.T) {
	query, args, err := latestPoolSnapshotQuery(137, "0xpool").ToSql()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	for _, part := range []string{
		"FROM pool_snapshots",
		"WHERE chain_id = $1 AND pool_address = $2",
		"ORDER BY block_number DESC",
		"LIMIT 1",
		"spot_price::text",
	} {
		if !strings.Contains(query, part) {
			t.Fatalf("query missing %q: %s", part, query)
		}
	}
	if len(args) != 2 || args[0] != int64(137) || args[1] != "0xpool" {
		t.Fatalf("unexpected args: %v", args)
	}
}

func TestExchangeHistoryQuery(t *testing.T) {
	query, args, err := exchangeHistoryQuery(1, "0xid", 100, 200).ToSql()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if !strings.Contains(query, "block_number >= $3 AND block_number <= $4") {
		t.Fatalf("unexpected range filter: %s", query)
	}
	if !strings.HasSuffix(query, "ORDER BY block_number ASC") {
		t.Fatalf("unexpected order: %s", query)
	}
	if len(args) != 4 || args[2] != int64(100) || args[3] != int64(200) {
		t.Fatalf("unexpected args: %v", args)
	}

	open, args, err := exchangeHistoryQuery(1, "0xid", 100, 0).ToSql()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if strings.Contains(open, "<=") || len(args) != 3 {
		t.Fatalf("open range must not bound the end block: %s %v", open, args)
	}
}

func TestSchemaDeclaresSnapshotTables(t *testing.T) {
	for _, table := range []string{"pool_snapshots", "exchange_snapshots", "vesting_snapshots"} {
		if !strings.Contains(schema, "CREATE TABLE IF NOT EXISTS "+table) {
			t.Fatalf("schema missing %s", table)
		}
	}
}
