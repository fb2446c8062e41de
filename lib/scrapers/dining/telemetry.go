package dining

import (
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("bruinmenu.lib.scrapers.dining")
var meter = otel.Meter("bruinmenu.lib.scrapers.dining")

var fetchFailures, _ = meter.Int64Counter("dining.fetch.failures")
var cacheHits, _ = meter.Int64Counter("dining.cache.hits")
