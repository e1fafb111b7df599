package videoconv

import (
	"plaza/internal/services"
)

// codecChoice binds an encoder the installed ffmpeg may offer to the
// container extension and audio codec that go with it.
type codecChoice struct {
	Label      string
	Encoder    string
	Ext        string
	AudioCodec string
}

// codecPreferences is ordered best-first. Selection takes the first choice
// whose encoder the installed ffmpeg reports.
var codecPreferences = []codecChoice{
	{Label: "vp9/webm", Encoder: "libvpx-vp9", Ext: ".webm", AudioCodec: "libopus"},
	{Label: "vp8/webm", Encoder: "libvpx", Ext: ".webm", AudioCodec: "libvorbis"},
	{Label: "webm", Encoder: "vp8", Ext: ".webm", AudioCodec: "libvorbis"},
	{Label: "h264/mp4", Encoder: "libx264", Ext: ".mp4", AudioCodec: "aac"},
}

func selectCodec(encoders map[string]bool) (codecChoice, error) {
	for _, choice := range codecPreferences {
		if encoders[choice.Encoder] {
			return choice, nil
		}
	}
	return codecChoice{}, services.Wrap(services.ErrConfiguration, "videoconv", "select codec",
		"installed ffmpeg supports none of the required encoders", nil)
}
