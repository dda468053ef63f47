package adapters

import (
	"github.com/bwmarrin/snowflake"

	radar "radar-austral/internal/radar/domain"
)

// Default source ids wired to dedicated adapters.
const (
	SourceCronicasReddit = "cronicas-reddit"
	SourceIndicadores    = "indicadores"
	SourceSismosUSGS     = "sismos-usgs"
	SourceMeteoAlertas   = "meteo-alertas"
	SourceSolarNOAA      = "solar-noaa"
	SourceMaritima       = "maritima-armada"
	SourcePrensaRSS      = "prensa-rss"
)

// NewDefaultRegistry wires the adapter for every known source identity plus a
// generic RSS fallback for any RSS source added later.
func NewDefaultRegistry(region string, ids *snowflake.Node) *Registry {
	registry := NewRegistry()
	registry.Register(SourceCronicasReddit, NewRedditAdapter())
	registry.Register(SourceIndicadores, NewMindicadorAdapter())
	registry.Register(SourceSismosUSGS, NewUSGSAdapter(region))
	registry.Register(SourceMeteoAlertas, NewMeteoAdapter(region))
	registry.Register(SourceSolarNOAA, NewSolarAdapter())
	registry.Register(SourceMaritima, NewMaritimeAdapter(ids))
	registry.RegisterFormat(radar.FormatRSS, NewRSSAdapter(ids))
	return registry
}

// DefaultSources returns the registry seed used on first run; users can
// rename, retime or disable them afterwards, never delete them.
func DefaultSources() []radar.Source {
	return []radar.Source{
		{
			ID:                  SourceCronicasReddit,
			Name:                "Cronica Austral",
			Endpoint:            "https://www.reddit.com/r/chile/new.json?limit=10",
			Format:              radar.FormatAPI,
			Enabled:             true,
			CategoryHint:        radar.CategoryCronicas,
			PollIntervalMinutes: 10,
		},
		{
			ID:                  SourceIndicadores,
			Name:                "Indicadores Economicos",
			Endpoint:            "https://mindicador.cl/api",
			Format:              radar.FormatSystem,
			Enabled:             true,
			CategoryHint:        radar.CategoryValores,
			PollIntervalMinutes: 60,
		},
		{
			ID:                  SourceSismosUSGS,
			Name:                "Sismos USGS",
			Endpoint:            "https://earthquake.usgs.gov/earthquakes/feed/v1.0/summary/4.5_day.geojson",
			Format:              radar.FormatAPI,
			Enabled:             true,
			CategoryHint:        radar.CategoryTerra,
			PollIntervalMinutes: 5,
		},
		{
			ID:                  SourceMeteoAlertas,
			Name:                "Alertas Meteorologicas",
			Endpoint:            "https://api.meteored.example/v1/alertas",
			Format:              radar.FormatAPI,
			Enabled:             true,
			CategoryHint:        radar.CategoryTerra,
			PollIntervalMinutes: 15,
		},
		{
			ID:                  SourceSolarNOAA,
			Name:                "Actividad Solar NOAA",
			Endpoint:            "https://services.swpc.noaa.gov/products/alerts.json",
			Format:              radar.FormatAPI,
			Enabled:             true,
			CategoryHint:        radar.CategoryVibraciones,
			PollIntervalMinutes: 30,
		},
		{
			ID:                  SourceMaritima,
			Name:                "Boletin Maritimo",
			Endpoint:            "https://meteoarmada.directemar.cl/rss/boletines.xml",
			Format:              radar.FormatRSS,
			Enabled:             true,
			CategoryHint:        radar.CategoryTerra,
			PollIntervalMinutes: 30,
		},
		{
			ID:                  SourcePrensaRSS,
			Name:                "Prensa Nacional",
			Endpoint:            "https://www.emol.com/rss/noticias.xml",
			Format:              radar.FormatRSS,
			Enabled:             true,
			CategoryHint:        radar.CategoryCronicas,
			PollIntervalMinutes: 15,
		},
	}
}
