package repository

import (
	"context"
	"database/sql"
	"fmt"

	"SentinelShield/internal/domain/models"
	domrepo "SentinelShield/internal/domain/repository"
	pkgch "SentinelShield/pkg/clickhouse"
	applogger "SentinelShield/pkg/logger"
)

const alertsTable = "shield_alerts"

var alertsSchema = []string{
	fmt.Sprintf(`
        CREATE TABLE IF NOT EXISTS %s (
            id String,
            symbol LowCardinality(String),
            price Float64,
            volume Int64,
            reason String,
            severity UInt8,
            manipulation_confidence Float64,
            source_handle String,
            trust_score Int32,
            registered UInt8,
            ml_score Float64,
            ml_flag UInt8,
            social_signals_count UInt16,
            created_at DateTime64(3, 'UTC')
        )
        ENGINE = MergeTree
        PARTITION BY toYYYYMM(created_at)
        ORDER BY (symbol, created_at)
    `, alertsTable),
}

// ClickHouseArchive is a write-behind copy of the alert ledger for long-term
// analytics. The in-process ledger stays authoritative; archive failures are
// logged and never surface to the scoring pipeline.
type ClickHouseArchive struct {
	client *pkgch.Client
	db     *sql.DB
	l      *applogger.Logger
}

// NewClickHouseArchive creates an archive over an existing client.
func NewClickHouseArchive(client *pkgch.Client, l *applogger.Logger) *ClickHouseArchive {
	return &ClickHouseArchive{client: client, db: client.DB(), l: l}
}

var _ domrepo.Archive = (*ClickHouseArchive)(nil)

// Init ensures the alerts table exists.
func (a *ClickHouseArchive) Init(ctx context.Context) error {
	return a.client.InitSchema(ctx, alertsSchema)
}

// Store writes a single alert row.
func (a *ClickHouseArchive) Store(ctx context.Context, alert models.Alert) error {
	q := fmt.Sprintf(`INSERT INTO %s
        (id, symbol, price, volume, reason, severity, manipulation_confidence,
         source_handle, trust_score, registered, ml_score, ml_flag,
         social_signals_count, created_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, alertsTable)

	_, err := a.db.ExecContext(ctx, q,
		alert.ID,
		alert.Symbol,
		alert.Price,
		alert.Volume,
		alert.Reason,
		uint8(alert.Severity),
		alert.ManipulationConfidence,
		alert.SourceHandle,
		int32(alert.TrustScore),
		boolToUint8(alert.Registered),
		alert.MLScore,
		boolToUint8(alert.MLFlag),
		uint16(alert.SocialSignalsCount),
		alert.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("archive alert %s: %w", alert.ID, err)
	}
	return nil
}

// Health pings the backing connection.
func (a *ClickHouseArchive) Health(ctx context.Context) error {
	return a.client.Health(ctx)
}

// Close releases the connection pool.
func (a *ClickHouseArchive) Close() error {
	return a.client.Close()
}

func boolToUint8(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}
