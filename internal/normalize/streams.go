package normalize

import "combine-videos/internal/probe"

// SelectStreams returns the last video stream and the last audio stream in
// streams. A kind that does not occur is returned as nil.
func SelectStreams(streams []probe.Stream) (video, audio *probe.Stream) {
	for i := len(streams) - 1; i >= 0; i-- {
		s := &streams[i]
		if video == nil && s.IsVideo() {
			video = s
		}
		if audio == nil && s.IsAudio() {
			audio = s
		}
		if video != nil && audio != nil {
			break
		}
	}
	return video, audio
}
