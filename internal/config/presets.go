package config

var Presets = map[string]*Config{
	"default": DefaultConfig(),
	"freefall": {
		Backend: DefaultBackend, Dt: 0.01, Frames: 200,
		Gravity:     [3]float64{0, 0, DefaultGravity},
		SanityCheck: SanityCheckConfig{Enable: true},
		Contact:     ContactConfig{Enable: false},
		Dump:        DumpConfig{Enable: true, Every: 10},
		Log:         LogConfig{Level: "info"},
	},
	"zero_g": {
		Backend: DefaultBackend, Dt: 0.01, Frames: 100,
		SanityCheck: SanityCheckConfig{Enable: true},
		Contact:     ContactConfig{Enable: true, DHat: DefaultDHat},
		Dump:        DumpConfig{Enable: true, Every: 1},
		Log:         LogConfig{Level: "info"},
	},
	"unchecked": {
		Backend: DefaultBackend, Dt: 0.005, Frames: 400,
		Gravity:     [3]float64{0, 0, DefaultGravity},
		SanityCheck: SanityCheckConfig{Enable: false},
		Contact:     ContactConfig{Enable: true, DHat: DefaultDHat},
		Dump:        DumpConfig{Enable: false},
		Log:         LogConfig{Level: "debug"},
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	return names
}
