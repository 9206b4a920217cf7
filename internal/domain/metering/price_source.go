package metering

// PriceSource says where a resolved price came from
type PriceSource string

const (
	PriceSourceCache      PriceSource = "cache"
	PriceSourceConfigured PriceSource = "configured"
	PriceSourceFallback   PriceSource = "fallback"
)
