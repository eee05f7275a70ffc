package profile

type H264 struct{}

func init() {
	Register(&H264{})
}

func (p *H264) GetName() string {
	return "h264"
}

func (p *H264) GetVideoCodec() string {
	return "libx264" // H.264 for better compatibility
}

func (p *H264) GetCodecTag() string {
	return "avc1"
}

func (p *H264) GetPixelFormat() string {
	return "yuv420p"
}

func (p *H264) GetVideoBitrate() string {
	return ""
}

func (p *H264) GetOutputFormat() string {
	return "mp4"
}
