package adapters

import (
	"encoding/json"
	"time"

	radar "radar-austral/internal/radar/domain"
)

// MindicadorAdapter normalizes the mindicador.cl economic indicator payload
// into a single snapshot record.
type MindicadorAdapter struct {
	now func() time.Time
}

// NewMindicadorAdapter constructs the adapter.
func NewMindicadorAdapter() *MindicadorAdapter {
	return &MindicadorAdapter{now: func() time.Time { return time.Now().UTC() }}
}

type indicatorValue struct {
	Valor float64 `json:"valor"`
}

type mindicadorPayload struct {
	UF    indicatorValue `json:"uf"`
	Dolar indicatorValue `json:"dolar"`
	UTM   indicatorValue `json:"utm"`
	IPC   indicatorValue `json:"ipc"`
	IVP   indicatorValue `json:"ivp"`
}

// Adapt builds the snapshot. A field absent upstream decodes to zero; the
// caller keeps the previous snapshot when the fetch itself fails.
func (a *MindicadorAdapter) Adapt(_ radar.Source, payload []byte) (Result, error) {
	var body mindicadorPayload
	if err := json.Unmarshal(payload, &body); err != nil {
		return Result{}, err
	}
	return Result{Indicators: &radar.IndicatorSnapshot{
		UF:        body.UF.Valor,
		USD:       body.Dolar.Valor,
		UTM:       body.UTM.Valor,
		IPC:       body.IPC.Valor,
		IVP:       body.IVP.Valor,
		FetchedAt: a.now(),
	}}, nil
}
