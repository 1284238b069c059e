package sqlc

import (
	"context"
	"net"

	"github.com/sqlc-dev/pqtype"
)

// AnalyticsManager keeps per server counters of how games went.
// No game state is stored.
type AnalyticsManager struct {
	queries  Querier
	serverIp pqtype.Inet
}

func NewAnalyticsManager(queries Querier, serverIpNet net.IPNet) *AnalyticsManager {
	return &AnalyticsManager{
		queries:  queries,
		serverIp: pqtype.Inet{IPNet: serverIpNet, Valid: true},
	}
}

func (a *AnalyticsManager) ServerIp() pqtype.Inet {
	return a.serverIp
}

func (a *AnalyticsManager) IncrementGamesCreatedCount(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, QuerierCtxTimeout)
	defer cancel()
	return a.queries.AnalyticsIncrementGamesCreatedCount(ctx, a.serverIp)
}

func (a *AnalyticsManager) IncrementGamesFinishedCount(ctx context.Context, won bool) error {
	ctx, cancel := context.WithTimeout(ctx, QuerierCtxTimeout)
	defer cancel()

	if won {
		return a.queries.AnalyticsIncrementGamesWonCount(ctx, a.serverIp)
	}
	return a.queries.AnalyticsIncrementGamesLostCount(ctx, a.serverIp)
}

func (a *AnalyticsManager) GetGameServerCounts(ctx context.Context) (AnalyticsGetGameServerCountsRow, error) {
	ctx, cancel := context.WithTimeout(ctx, QuerierCtxTimeout)
	defer cancel()
	return a.queries.AnalyticsGetGameServerCounts(ctx, a.serverIp)
}
