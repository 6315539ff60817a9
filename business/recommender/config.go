package recommender

type Config struct {
	// content-based component weights; normalized by their sum
	WStrand   float64
	WStanine  float64
	WGWA      float64
	WInterest float64

	// neighbourhood used by the collaborative signal
	StanineRadius int
	GWATolerance  float64

	// collaborative blend weight is n / (n + CollabSaturation)
	CollabSaturation float64
	// pseudo-count pulling each course's collaborative estimate toward its content score
	CollabPriorWeight float64

	// save-then-retrain policy for feedback submissions
	RetrainAfterSaving bool
}

const (
	defaultWStrand            = 0.4
	defaultWStanine           = 0.2
	defaultWGWA               = 0.2
	defaultWInterest          = 0.2
	defaultStanineRadius      = 1
	defaultGWATolerance       = 5.0
	defaultCollabSaturation   = 10.0
	defaultCollabPriorWeight  = 2.0
	defaultRetrainAfterSaving = true
)

func DefaultConfig() Config {
	return Config{
		WStrand:   defaultWStrand,
		WStanine:  defaultWStanine,
		WGWA:      defaultWGWA,
		WInterest: defaultWInterest,

		StanineRadius: defaultStanineRadius,
		GWATolerance:  defaultGWATolerance,

		CollabSaturation:  defaultCollabSaturation,
		CollabPriorWeight: defaultCollabPriorWeight,

		RetrainAfterSaving: defaultRetrainAfterSaving,
	}
}

// sanitized fills zero or negative knobs with defaults.
func (c Config) sanitized() Config {
	d := DefaultConfig()
	if c.WStrand+c.WStanine+c.WGWA+c.WInterest <= 0 {
		c.WStrand, c.WStanine, c.WGWA, c.WInterest = d.WStrand, d.WStanine, d.WGWA, d.WInterest
	}
	if c.StanineRadius < 0 {
		c.StanineRadius = d.StanineRadius
	}
	if c.GWATolerance < 0 {
		c.GWATolerance = d.GWATolerance
	}
	if c.CollabSaturation <= 0 {
		c.CollabSaturation = d.CollabSaturation
	}
	if c.CollabPriorWeight <= 0 {
		c.CollabPriorWeight = d.CollabPriorWeight
	}
	return c
}
