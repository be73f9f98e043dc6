package metadata

import "sync"

// DeviceProbe implements the device-aware downgrade optimization from
// spec §4.2: once a file's {Make, Model} pair is known not to expose
// extra fields in extended mode, that file (keyed by path) skips the
// extended pass; other files from the same device are not affected
// until their own fast pass is observed. Purely an optimization — SkipsExtended returning
// false never means "extended is required", only "not yet known to be
// skippable".
type DeviceProbe struct {
	mu    sync.Mutex
	skip  map[string]bool // path -> skip extended
	known map[string]bool // "Make/Model" -> known to skip extended
}

// knownNoExtendedDevices lists Make/Model pairs known from experience
// not to carry extra fields beyond what fast-mode EXIF already
// exposes — phone cameras with minimal maker-note usage.
var knownNoExtendedDevices = map[string]bool{
	"Apple/iPhone": true,
	"Google/Pixel": true,
}

func NewDeviceProbe() *DeviceProbe {
	return &DeviceProbe{
		skip:  make(map[string]bool),
		known: knownNoExtendedDevices,
	}
}

// Observe records a file's extracted Make/Model (if present in
// fields) against the static known-device table, remembering whether
// this path's device should skip extended extraction next time.
func (p *DeviceProbe) Observe(path string, fields map[string]string) {
	deviceMake, model := fields["exif:Make"], fields["exif:Model"]
	if deviceMake == "" || model == "" {
		return
	}
	if p.known[deviceMake+"/"+model] {
		p.mu.Lock()
		p.skip[path] = true
		p.mu.Unlock()
	}
}

// SkipsExtended reports whether path's device is known to skip the
// extended pass. Since the device isn't known until a fast pass has
// run, this always returns false for a file's first extraction.
func (p *DeviceProbe) SkipsExtended(path string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.skip[path]
}
