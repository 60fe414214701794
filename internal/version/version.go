// Package version provides build and version information.
package version

// Version is the current application version.
const Version = "0.3.0"

// Milestones:
// 0.3.0 - Epoch alignment via meeus, YAML config, Prometheus metrics, location presets
// 0.2.0 - Sky dome with star catalog, day dial, orbit star line, frame cache
// 0.1.0 - Initial release: orbit view, continuous and stepped schemes, headless summary
