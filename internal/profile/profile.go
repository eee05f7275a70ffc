package profile

import (
	"github.com/pkg/errors"
	"golang.org/x/exp/slices"
)

// Default is used when no profile is requested
const Default = "mp4v"

// Profile describes how rendered frames are encoded
type Profile interface {
	// GetName returns the profile name
	GetName() string

	// GetVideoCodec returns the ffmpeg encoder name
	GetVideoCodec() string

	// GetCodecTag returns the fourcc written to the container
	GetCodecTag() string

	// GetPixelFormat returns the encoded pixel format
	GetPixelFormat() string

	// GetVideoBitrate returns the target bitrate, empty for encoder default
	GetVideoBitrate() string

	// GetOutputFormat returns the container format (e.g., "mp4", "webm")
	GetOutputFormat() string
}

var profiles = make(map[string]Profile)

// Register adds a profile to the registry
func Register(p Profile) {
	profiles[p.GetName()] = p
}

// Get returns a profile by name; an empty name selects Default
func Get(name string) (Profile, error) {
	if name == "" {
		name = Default
	}
	p, ok := profiles[name]
	if !ok {
		return nil, errors.Errorf("unsupported profile: %s", name)
	}
	return p, nil
}

// Names returns the registered profile names in sorted order
func Names() []string {
	names := make([]string, 0, len(profiles))
	for name := range profiles {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Extension returns the output file extension for p, including the dot
func Extension(p Profile) string {
	return "." + p.GetOutputFormat()
}
