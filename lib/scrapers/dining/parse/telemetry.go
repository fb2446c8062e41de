package parse

import (
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("bruinmenu.lib.scrapers.dining.parse")
var meter = otel.Meter("bruinmenu.lib.scrapers.dining.parse")

var droppedItems, _ = meter.Int64Counter("dining.items.dropped")
