package metrics

import (
	"time"

	"github.com/floroz/marketplace/pkg/database"
	domainerrors "github.com/floroz/marketplace/services/market-service/internal/domain/errors"
	"github.com/floroz/marketplace/services/market-service/internal/domain/items"
)

// TradeRecorder implements trade.Recorder on the package collectors.
type TradeRecorder struct{}

func NewTradeRecorder() *TradeRecorder {
	return &TradeRecorder{}
}

func (*TradeRecorder) ObserveOperation(op string, started time.Time, err error) {
	TradeOperationDuration.WithLabelValues(op).Observe(time.Since(started).Seconds())
	TradeOperationsTotal.WithLabelValues(op, domainerrors.KindName(err)).Inc()
	if database.IsContention(err) {
		ItemLockContentionTotal.WithLabelValues(op).Inc()
	}
}

func (*TradeRecorder) ObserveTransition(from, to items.ItemState) {
	ItemTransitionsTotal.WithLabelValues(from.String(), to.String()).Inc()
}

func (*TradeRecorder) ObserveSale(finalPrice int64) {
	ItemsSoldTotal.Inc()
	SalesValueTotal.Add(float64(finalPrice))
}
