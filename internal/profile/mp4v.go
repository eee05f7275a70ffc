package profile

// MP4V encodes MPEG-4 Part 2 video into an mp4 container
type MP4V struct{}

func init() {
	Register(&MP4V{})
}

func (p *MP4V) GetName() string {
	return "mp4v"
}

func (p *MP4V) GetVideoCodec() string {
	return "mpeg4"
}

func (p *MP4V) GetCodecTag() string {
	return "mp4v"
}

func (p *MP4V) GetPixelFormat() string {
	return "yuv420p"
}

func (p *MP4V) GetVideoBitrate() string {
	return "4M"
}

func (p *MP4V) GetOutputFormat() string {
	return "mp4"
}
