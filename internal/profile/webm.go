package profile

type WebM struct{}

func init() {
	Register(&WebM{})
}

func (p *WebM) GetName() string {
	return "webm"
}

func (p *WebM) GetVideoCodec() string {
	return "libvpx-vp9"
}

// GetCodecTag is empty; the webm muxer picks the tag itself
func (p *WebM) GetCodecTag() string {
	return ""
}

func (p *WebM) GetPixelFormat() string {
	return "yuv420p"
}

func (p *WebM) GetVideoBitrate() string {
	return "2M"
}

func (p *WebM) GetOutputFormat() string {
	return "webm"
}
