package journal

import (
	"time"

	"github.com/rustyeddy/fxjournal/market"
)

func sampleTrades() []TradeRecord {
	t0 := time.Date(2024, 4, 10, 9, 0, 0, 0, time.UTC)
	return []TradeRecord{
		{
			ID:          "01HV000000000000000000T001",
			RunID:       "R1",
			Pair:        "EUR_USD",
			Direction:   market.Buy,
			EntryPrice:  1.085,
			EntryTime:   t0,
			Quantity:    100000,
			StopLoss:    1.083,
			TakeProfit:  1.089,
			ExitPrice:   1.089,
			ExitTime:    t0.Add(4 * time.Hour),
			ProfitLoss:  400.0000000000011,
			CloseReason: CloseTakeProfit,
			Status:      StatusClosed,
			Notes:       "clean breakout",
		},
		{
			ID:          "01HV000000000000000000T002",
			RunID:       "R1",
			Pair:        "EUR_USD",
			Direction:   market.Sell,
			EntryPrice:  1.09,
			EntryTime:   t0.Add(24 * time.Hour),
			Quantity:    98000,
			StopLoss:    1.092,
			TakeProfit:  1.086,
			ExitPrice:   1.092,
			ExitTime:    t0.Add(28 * time.Hour),
			ProfitLoss:  -196.00000000000176,
			CloseReason: CloseStopLoss,
			Status:      StatusClosed,
			Notes:       "faded \"news\",\nstopped out",
		},
		{
			ID:          "01HV000000000000000000T003",
			RunID:       "R2",
			Pair:        "USD_JPY",
			Direction:   market.Buy,
			EntryPrice:  150.25,
			EntryTime:   t0.Add(48 * time.Hour),
			Quantity:    1000,
			StopLoss:    150.05,
			TakeProfit:  150.65,
			ExitPrice:   150.3,
			ExitTime:    t0.Add(60 * time.Hour),
			ProfitLoss:  50,
			CloseReason: CloseEndOfTest,
			Status:      StatusClosed,
		},
	}
}
