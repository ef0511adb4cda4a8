package warpalign

import "github.com/warpalign/warpalign/internal/transform"

// CatalogEntry is a named transformation in the fixed demonstration
// catalog.
type CatalogEntry struct {
	Name string
	Spec transform.Spec
}

// Catalog returns the eight named transformations the driver feeds through
// the pipeline: two translations, compression, dilation, two amplitude
// scalings, noise, and one composed transform. The catalog is
// configuration, not core logic; callers can run any additional Spec
// through Analyze directly.
func Catalog() []CatalogEntry {
	return []CatalogEntry{
		{Name: "translate+50ms", Spec: transform.Translate{OffsetMs: 50}},
		{Name: "translate-120ms", Spec: transform.Translate{OffsetMs: -120}},
		{Name: "compress-0.8x", Spec: transform.Scale{Factor: 0.8, Axis: transform.AxisTime}},
		{Name: "dilate-1.2x", Spec: transform.Scale{Factor: 1.2, Axis: transform.AxisTime}},
		{Name: "amplify-2.0x", Spec: transform.Scale{Factor: 2.0, Axis: transform.AxisAmplitude}},
		{Name: "attenuate-0.5x", Spec: transform.Scale{Factor: 0.5, Axis: transform.AxisAmplitude}},
		{Name: "noise-0.05", Spec: transform.AddNoise{StdDev: 0.05}},
		{Name: "composite", Spec: transform.Compose{Specs: []transform.Spec{
			transform.Translate{OffsetMs: 30},
			transform.Scale{Factor: 0.9, Axis: transform.AxisTime},
		}}},
	}
}

// CatalogByName looks up a catalog entry by name.
func CatalogByName(name string) (CatalogEntry, bool) {
	for _, e := range Catalog() {
		if e.Name == name {
			return e, true
		}
	}
	return CatalogEntry{}, false
}
