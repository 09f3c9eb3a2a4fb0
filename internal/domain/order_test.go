package domain_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/DRSN-tech/inventory-backend/internal/domain"
	"github.com/DRSN-tech/inventory-backend/pkg/e"
)

func TestNextStage_WalksFullSequence(t *testing.T) {
	want := []domain.Stage{
		domain.StageConfirmed,
		domain.StagePicking,
		domain.StagePacking,
		domain.StageQualityCheck,
		domain.StageReadyToShip,
		domain.StageShipped,
		domain.StageDelivered,
	}

	stage := domain.StageReceived
	for _, next := range want {
		got, err := domain.NextStage(stage)
		require.NoError(t, err)
		require.Equal(t, next, got)
		stage = got
	}

	// Delivered — конец основной последовательности.
	_, err := domain.NextStage(domain.StageDelivered)
	require.ErrorIs(t, err, e.ErrInvalidTransition)
}

func TestNextStage_Branches(t *testing.T) {
	_, err := domain.NextStage(domain.StageCancelled)
	require.ErrorIs(t, err, e.ErrInvalidTransition)

	_, err = domain.NextStage(domain.StageReturned)
	require.ErrorIs(t, err, e.ErrInvalidTransition)
}

func TestCanCancel(t *testing.T) {
	cancellable := []domain.Stage{
		domain.StageReceived,
		domain.StageConfirmed,
		domain.StagePicking,
		domain.StagePacking,
		domain.StageQualityCheck,
		domain.StageReadyToShip,
	}
	for _, s := range cancellable {
		require.True(t, domain.CanCancel(s), "stage %s", s)
	}

	for _, s := range []domain.Stage{domain.StageShipped, domain.StageDelivered, domain.StageCancelled, domain.StageReturned} {
		require.False(t, domain.CanCancel(s), "stage %s", s)
	}
}

func TestCanReturn(t *testing.T) {
	require.True(t, domain.CanReturn(domain.StageDelivered))
	require.False(t, domain.CanReturn(domain.StageShipped))
	require.False(t, domain.CanReturn(domain.StageReturned))
}

func TestStockCommitted(t *testing.T) {
	for _, s := range []domain.Stage{domain.StageReceived, domain.StageConfirmed, domain.StagePicking} {
		require.False(t, domain.StockCommitted(s), "stage %s", s)
	}
	for _, s := range []domain.Stage{domain.StagePacking, domain.StageQualityCheck, domain.StageReadyToShip, domain.StageShipped, domain.StageDelivered} {
		require.True(t, domain.StockCommitted(s), "stage %s", s)
	}
}

func TestProgress(t *testing.T) {
	require.Equal(t, float64(0), domain.Progress(domain.StageReceived))
	require.Equal(t, float64(100), domain.Progress(domain.StageDelivered))
	require.InDelta(t, 42.857, domain.Progress(domain.StagePacking), 0.001)

	// Боковые ветки вне линейной шкалы.
	require.Equal(t, float64(0), domain.Progress(domain.StageCancelled))
}

func TestParseStage(t *testing.T) {
	for _, valid := range []string{"received", "picking", "delivered", "cancelled", "returned"} {
		stage, err := domain.ParseStage(valid)
		require.NoError(t, err)
		require.Equal(t, domain.Stage(valid), stage)
	}

	_, err := domain.ParseStage("archived")
	require.ErrorIs(t, err, e.ErrInvalidStage)
}
