package calendar

import (
	"context"
	"log"
)

// Provider selection modes.
const (
	ProviderGoogle = "google"
	ProviderLocal  = "local"
	ProviderAuto   = "auto"
)

// Select returns the provider for mode.  Auto uses Google when credentials
// are present and Local otherwise.  Asking for Google without usable
// credentials yields Unconfigured, so every sync is recorded as an error
// rather than silently faked.
func Select(ctx context.Context, mode string, cfg GoogleConfig) Provider {
	switch mode {
	case ProviderLocal:
		return Local{}
	case ProviderGoogle:
		g, err := NewGoogle(ctx, cfg)
		if err != nil {
			log.Printf("calendar: google provider unavailable: %v", err)
			return Unconfigured{}
		}
		return g
	default:
		if !cfg.Configured() {
			log.Printf("calendar: no google credentials, using local provider")
			return Local{}
		}
		g, err := NewGoogle(ctx, cfg)
		if err != nil {
			log.Printf("calendar: google provider unavailable: %v", err)
			return Local{}
		}
		return g
	}
}
