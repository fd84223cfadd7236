package widgetscmd

// FeatureGates exposes the runtime toggles consulted by widget command handlers.
type FeatureGates struct {
	WidgetsEnabled   func() bool
	DonationsEnabled func() bool
}

func (g FeatureGates) widgetsEnabled() bool {
	if g.WidgetsEnabled == nil {
		return true
	}
	return g.WidgetsEnabled()
}

func (g FeatureGates) donationsEnabled() bool {
	if !g.widgetsEnabled() {
		return false
	}
	if g.DonationsEnabled == nil {
		return true
	}
	return g.DonationsEnabled()
}
